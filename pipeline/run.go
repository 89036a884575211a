package pipeline

import (
	"net/http"
	"reflect"

	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

// RunFromScope sets the terminal handler of the pipeline to one resolved from
// the request scope.
//
// For each request, T is resolved from the scope on the request context and
// handler is invoked with the resolved value. The terminal handler has no next
// stage.
//
// A request-scope stage must already be installed on the pipeline; otherwise
// RunFromScope returns an error and registers nothing. Request-time failures
// panic with the same conditions as [UseMiddleware].
func RunFromScope[T any](b *Builder, handler func(T, http.ResponseWriter, *http.Request)) error {
	if b == nil {
		return errors.New("pipeline.RunFromScope: pipeline is nil")
	}
	if handler == nil {
		return errors.New("pipeline.RunFromScope: handler is nil")
	}
	if !HasRequestScope(b) {
		return errors.New("pipeline.RunFromScope: no request-scope stage is installed on the pipeline")
	}

	t := reflect.TypeFor[T]()

	b.Run(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope := scopekit.ScopeFromContext(ctx)
		if scope == nil {
			panic(errors.Wrapf(scopekit.ErrNoScope, "pipeline: resolve handler %s", t))
		}

		val, err := scope.Resolve(ctx, t)
		if err != nil {
			panic(errors.Wrapf(err, "pipeline: resolve handler %s", t))
		}

		handler(val.(T), w, r)
	}))
	return nil
}
