package pipeline

import (
	"net/http"
	"reflect"

	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

var (
	typeMiddleware    = reflect.TypeFor[scopekit.Middleware]()
	typeScopedHandler = reflect.TypeFor[*scopedHandler]()
)

// UseMiddleware registers a stage that resolves M from the request scope on
// every request.
//
// M must be a concrete type implementing [scopekit.Middleware]. The next stage
// of the pipeline is supplied to the resolution as an [http.Handler] value, so
// M's constructor can take it as a dependency.
//
// A request-scope stage must already be installed on the pipeline (see
// [RequestScope]); otherwise UseMiddleware returns an error and registers
// nothing.
//
// Request-time failures are programming errors and panic: a missing scope
// panics with an error matching [scopekit.ErrNoScope], and an unregistered M
// panics with an error matching [scopekit.ErrTypeNotRegistered]. Both name M.
func UseMiddleware[M any](b *Builder) error {
	return useMiddlewareType(b, reflect.TypeFor[M](), "pipeline.UseMiddleware")
}

// UseAllMiddleware registers a stage for every middleware type discovered in
// the container with [MiddlewareTypes], preserving the container's
// registration order.
//
// Like [UseMiddleware], it requires an installed request-scope stage.
func UseAllMiddleware(b *Builder, c scopekit.Container) error {
	if b == nil {
		return errors.New("pipeline.UseAllMiddleware: pipeline is nil")
	}
	if c == nil {
		return errors.New("pipeline.UseAllMiddleware: container is nil")
	}
	if !HasRequestScope(b) {
		return errors.New("pipeline.UseAllMiddleware: no request-scope stage is installed on the pipeline")
	}

	for _, t := range MiddlewareTypes(c) {
		if err := useMiddlewareType(b, t, "pipeline.UseAllMiddleware"); err != nil {
			return err
		}
	}
	return nil
}

func useMiddlewareType(b *Builder, t reflect.Type, op string) error {
	if b == nil {
		return errors.Errorf("%s: pipeline is nil", op)
	}
	if t == nil {
		return errors.Errorf("%s: type is nil", op)
	}
	if t.Kind() == reflect.Interface || !t.Implements(typeMiddleware) {
		return errors.Errorf("%s: %s is not a concrete scopekit.Middleware implementation", op, t)
	}
	if !HasRequestScope(b) {
		return errors.Errorf("%s: no request-scope stage is installed on the pipeline", op)
	}

	b.Use(func(next http.Handler) http.Handler {
		return &scopedHandler{typ: t, next: next}
	})
	return nil
}

// scopedHandler resolves its middleware type from the request scope on every
// request and delegates to the resolved instance.
//
// Resolution failures are translated rather than passed through raw: the panic
// value names the middleware type and wraps the container's error, so
// [scopekit.ErrTypeNotRegistered] stays in the chain and remains
// distinguishable from [scopekit.ErrNoScope].
type scopedHandler struct {
	typ  reflect.Type
	next http.Handler
}

var _ scopekit.Middleware = (*scopedHandler)(nil)

func (h *scopedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r)
}

func (h *scopedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope := scopekit.ScopeFromContext(ctx)
	if scope == nil {
		panic(errors.Wrapf(scopekit.ErrNoScope, "pipeline: resolve middleware %s", h.typ))
	}

	val, err := scope.Resolve(ctx, h.typ, h.next)
	if err != nil {
		panic(errors.Wrapf(err, "pipeline: resolve middleware %s", h.typ))
	}

	val.(scopekit.Middleware).Handle(w, r)
}
