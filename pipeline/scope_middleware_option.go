package pipeline

import (
	"github.com/sectrean/scope-kit/internal/errors"
)

// ScopeMiddlewareOption is an option used to configure the request-scope stage
// when calling [RequestScope] or [RequestScopeFrom].
type ScopeMiddlewareOption interface {
	applyScopeMiddleware(*scopeMiddleware) error
}

type scopeMiddlewareOption func(*scopeMiddleware) error

func (o scopeMiddlewareOption) applyScopeMiddleware(m *scopeMiddleware) error {
	return o(m)
}

// WithScopeValues registers additional values with each request scope created
// by [RequestScope].
//
// Has no effect with [RequestScopeFrom], where the source controls scope
// creation.
func WithScopeValues(values ...any) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(m *scopeMiddleware) error {
		m.values = append(m.values, values...)
		return nil
	})
}

// WithNewScopeErrorHandler sets the handler called when the scope source fails
// for a request.
func WithNewScopeErrorHandler(h NewScopeErrorHandler) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(m *scopeMiddleware) error {
		if h == nil {
			return errors.New("WithNewScopeErrorHandler: h is nil")
		}
		m.newScopeHandler = h
		return nil
	})
}

// WithScopeCloseErrorHandler sets the handler called when closing a request
// scope fails after the request has completed.
func WithScopeCloseErrorHandler(h ScopeCloseErrorHandler) ScopeMiddlewareOption {
	return scopeMiddlewareOption(func(m *scopeMiddleware) error {
		if h == nil {
			return errors.New("WithScopeCloseErrorHandler: h is nil")
		}
		m.closeHandler = h
		return nil
	})
}
