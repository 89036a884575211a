package scopekit

import (
	"context"
	"reflect"

	"github.com/sectrean/scope-kit/internal/errors"
)

type scopeContextKey struct{}

// ContextWithScope returns a new Context that carries the provided Scope.
func ContextWithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// ScopeFromContext returns the Scope stored on the Context, if it exists.
func ScopeFromContext(ctx context.Context) Scope {
	if s, ok := ctx.Value(scopeContextKey{}).(Scope); ok {
		return s
	}
	return nil
}

// Resolve a service of type Service from the [Scope] stored on the
// [context.Context].
//
// Extra values are made available to the service's constructor.
func Resolve[Service any](ctx context.Context, values ...any) (Service, error) {
	t := reflect.TypeFor[Service]()
	var val Service

	s := ScopeFromContext(ctx)
	if s == nil {
		return val, errors.Wrapf(ErrNoScope, "resolve %s from context", t)
	}

	anyVal, err := s.Resolve(ctx, t, values...)
	if anyVal != nil {
		val = anyVal.(Service)
	}

	return val, errors.Wrap(err, "resolve from context")
}

// MustResolve resolves a service of type Service from the [Scope] stored on the
// [context.Context].
//
// If the service cannot be resolved, this function will panic.
func MustResolve[Service any](ctx context.Context, values ...any) Service {
	val, err := Resolve[Service](ctx, values...)
	if err != nil {
		panic(err)
	}
	return val
}
