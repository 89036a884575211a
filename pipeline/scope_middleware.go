package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

// requestScopeMarker is the builder property key recording that a
// request-scope stage has been installed. It is namespaced with a per-process
// random identifier so that independent copies of this package loaded into one
// process do not observe each other's markers.
var requestScopeMarker = "scopekit:request-scope:" + uuid.NewString()

// ScopeSource obtains the scope to attach to a request.
type ScopeSource func(r *http.Request) (scopekit.Scope, error)

// RequestScope installs a stage that creates a child scope from parent for
// each request, stores it on the request context, and closes it after every
// downstream stage has completed, on both the success and the panic path.
// Downstream panics propagate unchanged.
//
// The current [*http.Request] is registered with each scope and can be used as
// a dependency of scoped services.
//
// If the request context already carries a scope, the stage forwards the
// request untouched: no scope is created and nothing is closed. Ownership
// stays with whoever attached it.
//
// Downstream stages access the scope with [scopekit.ScopeFromContext],
// [scopekit.Resolve], or [scopekit.MustResolve].
//
// Available options:
//   - [WithScopeValues]: register additional values with each request scope.
//   - [WithNewScopeErrorHandler]: handle errors creating a scope.
//   - [WithScopeCloseErrorHandler]: handle errors closing a scope.
func RequestScope(b *Builder, parent scopekit.Container, opts ...ScopeMiddlewareOption) error {
	if b == nil {
		return errors.New("pipeline.RequestScope: pipeline is nil")
	}
	if parent == nil {
		return errors.New("pipeline.RequestScope: parent is nil")
	}

	mw := newScopeMiddleware(true)
	if err := mw.applyOptions(opts); err != nil {
		return errors.Wrap(err, "pipeline.RequestScope")
	}

	mw.source = func(r *http.Request) (scopekit.Scope, error) {
		values := make([]any, 0, len(mw.values)+1)
		values = append(values, r)
		values = append(values, mw.values...)

		return parent.NewScope(r.Context(), values...)
	}

	install(b, mw)
	return nil
}

// RequestScopeFrom installs a stage like [RequestScope], backed by a
// caller-supplied source instead of a container.
//
// Scopes obtained from source are never closed by the stage. The caller
// retains ownership and is responsible for disposal.
func RequestScopeFrom(b *Builder, source ScopeSource, opts ...ScopeMiddlewareOption) error {
	if b == nil {
		return errors.New("pipeline.RequestScopeFrom: pipeline is nil")
	}
	if source == nil {
		return errors.New("pipeline.RequestScopeFrom: source is nil")
	}

	mw := newScopeMiddleware(false)
	if err := mw.applyOptions(opts); err != nil {
		return errors.Wrap(err, "pipeline.RequestScopeFrom")
	}
	mw.source = source

	install(b, mw)
	return nil
}

// HasRequestScope reports whether a request-scope stage has been installed on
// the pipeline with [RequestScope] or [RequestScopeFrom].
func HasRequestScope(b *Builder) bool {
	if b == nil {
		return false
	}

	installed, _ := b.Properties()[requestScopeMarker].(bool)
	return installed
}

func install(b *Builder, mw *scopeMiddleware) {
	b.Use(func(next http.Handler) http.Handler {
		m := *mw
		m.next = next
		return &m
	})

	b.Properties()[requestScopeMarker] = true
}

// NewScopeErrorHandler is a function that writes an error response to the
// client when the scope source fails for a request.
//
// The default handler logs the error to [slog.Default] and writes a
// 500 Internal Server Error response.
type NewScopeErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

func defaultNewScopeErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "error creating request scope", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// ScopeCloseErrorHandler is a function that handles errors closing the request
// scope after the request has completed.
//
// The default handler logs the error to [slog.Default].
type ScopeCloseErrorHandler = func(r *http.Request, err error)

func defaultScopeCloseErrorHandler(r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "error closing request scope", "error", err)
}

type scopeMiddleware struct {
	source          ScopeSource
	values          []any
	newScopeHandler NewScopeErrorHandler
	closeHandler    ScopeCloseErrorHandler
	owned           bool
	next            http.Handler
}

func newScopeMiddleware(owned bool) *scopeMiddleware {
	return &scopeMiddleware{
		owned:           owned,
		newScopeHandler: defaultNewScopeErrorHandler,
		closeHandler:    defaultScopeCloseErrorHandler,
	}
}

func (m *scopeMiddleware) applyOptions(opts []ScopeMiddlewareOption) error {
	var errs []error
	for _, opt := range opts {
		if err := opt.applyScopeMiddleware(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *scopeMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// First writer wins: a scope attached upstream is left untouched.
	if scopekit.ScopeFromContext(ctx) != nil {
		m.next.ServeHTTP(w, r)
		return
	}

	scope, err := m.source(r)
	if err != nil {
		if m.newScopeHandler != nil {
			m.newScopeHandler(w, r, err)
		}
		return
	}

	ctx = scopekit.ContextWithScope(ctx, scope)

	if m.owned {
		// Close after everything downstream has finished, panics included.
		defer func() {
			if closeErr := scopekit.CloseScope(ctx, scope); closeErr != nil && m.closeHandler != nil {
				m.closeHandler(r, closeErr)
			}
		}()
	}

	m.next.ServeHTTP(w, r.WithContext(ctx))
}
