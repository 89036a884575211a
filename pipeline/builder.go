package pipeline

import (
	"context"
	"net/http"
)

// Builder assembles an HTTP pipeline from middleware stages.
//
// Stages execute in the order they are registered with [Builder.Use].
// [Builder.Run] sets the terminal handler invoked after the last stage; by
// default the pipeline responds 404 Not Found.
//
// Builder also carries shared composition-time properties. Hosts publish
// signals there (see [ShutdownContextKey]) and registration helpers record
// markers there (see [HasRequestScope]).
//
// Builder is not safe for concurrent use: compose the pipeline before serving
// traffic. The handler returned by [Builder.Build] is safe for concurrent use
// if the registered stages are.
type Builder struct {
	stages   []func(http.Handler) http.Handler
	terminal http.Handler
	props    map[string]any
}

// New creates an empty pipeline Builder.
//
// Available options:
//   - [WithShutdownContext] publishes the host's shutdown signal to the pipeline.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{
		props: make(map[string]any),
	}
	for _, opt := range opts {
		opt.applyBuilder(b)
	}
	return b
}

// BuilderOption is an option used to configure a [Builder] when calling [New].
type BuilderOption interface {
	applyBuilder(*Builder)
}

type builderOption func(*Builder)

func (o builderOption) applyBuilder(b *Builder) {
	o(b)
}

// WithShutdownContext publishes the host's shutdown signal to the pipeline
// under [ShutdownContextKey].
//
// The context should be one that is canceled when the host begins shutting
// down, such as a [os/signal.NotifyContext] context or an
// [http.Server.BaseContext] context.
func WithShutdownContext(ctx context.Context) BuilderOption {
	return builderOption(func(b *Builder) {
		b.props[ShutdownContextKey] = ctx
	})
}

// Use appends a middleware stage to the pipeline.
func (b *Builder) Use(mw func(http.Handler) http.Handler) {
	if mw == nil {
		panic("pipeline: Use called with nil middleware")
	}
	b.stages = append(b.stages, mw)
}

// Run sets the terminal handler invoked after the last stage.
func (b *Builder) Run(h http.Handler) {
	if h == nil {
		panic("pipeline: Run called with nil handler")
	}
	b.terminal = h
}

// Properties returns the mutable property bag shared across pipeline
// composition.
func (b *Builder) Properties() map[string]any {
	return b.props
}

// Build composes the registered stages around the terminal handler and returns
// the resulting handler. Build may be called more than once; later
// registrations are picked up by later calls.
func (b *Builder) Build() http.Handler {
	h := b.terminal
	if h == nil {
		h = http.NotFoundHandler()
	}

	for i := len(b.stages) - 1; i >= 0; i-- {
		h = b.stages[i](h)
	}
	return h
}
