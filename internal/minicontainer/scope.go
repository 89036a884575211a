package minicontainer

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

// Scope is a child resolution scope created by [Container.NewScope].
//
// Scoped services resolve to one instance per Scope; singletons resolve
// through the root Container. Closing the Scope closes every instance it
// constructed, in reverse creation order.
type Scope struct {
	root      *Container
	values    []any
	instances *xsync.MapOf[reflect.Type, any]
	closers   []func(context.Context) error
	mu        sync.Mutex
	closed    bool
	closes    atomic.Int32
}

var _ scopekit.Scope = (*Scope)(nil)
var _ scopekit.Closer = (*Scope)(nil)

// Resolve returns a service of the given type from the Scope.
//
// The values the Scope was created with and any extra values are matched
// before registrations.
func (s *Scope) Resolve(ctx context.Context, t reflect.Type, values ...any) (any, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, errors.Errorf("minicontainer: resolve %s: scope is closed", t)
	}

	all := make([]any, 0, len(values)+len(s.values))
	all = append(all, values...)
	all = append(all, s.values...)

	return s.root.resolve(ctx, t, all, s)
}

// Close closes every instance the Scope constructed, in reverse creation
// order. Closing an already-closed Scope is a no-op.
func (s *Scope) Close(ctx context.Context) error {
	s.closes.Add(1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i](ctx))
	}
	return errors.Wrap(errors.Join(errs...), "minicontainer: close scope")
}

// Closes reports how many times Close has been called. Tests use it to verify
// disposal behavior.
func (s *Scope) Closes() int {
	return int(s.closes.Load())
}
