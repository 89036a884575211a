// Package minicontainer is a small dependency injection container implementing
// [scopekit.Container]. It backs this module's tests and examples.
//
// It supports constructor and value registrations with singleton, scoped, and
// transient lifetimes, child scopes with extra-value injection, and a dynamic
// catch-all registration source. It does not detect dependency cycles.
package minicontainer

import (
	"context"
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

var (
	typeContext = reflect.TypeFor[context.Context]()
	typeError   = reflect.TypeFor[error]()
)

type registration struct {
	scopekit.Registration

	ctor     reflect.Value // constructor function, or zero for value and catch-all registrations
	val      any
	catchAll bool
}

// Container is an ordered-registration dependency injection container.
type Container struct {
	registrations []registration
	instances     *xsync.MapOf[reflect.Type, any]
	closers       []func(context.Context) error
	mu            sync.Mutex
}

var _ scopekit.Container = (*Container)(nil)

// New creates an empty Container. Register services with the Register
// functions before resolving.
func New() *Container {
	return &Container{
		instances: xsync.NewMapOf[reflect.Type, any](),
	}
}

// RegisterSingleton registers a constructor whose result is created once per
// Container and shared by all scopes.
func RegisterSingleton[T any](c *Container, ctor any) {
	register[T](c, ctor, scopekit.Singleton)
}

// RegisterScoped registers a constructor whose result is created once per
// scope. Scoped services cannot be resolved from the root Container.
func RegisterScoped[T any](c *Container, ctor any) {
	register[T](c, ctor, scopekit.Scoped)
}

// RegisterTransient registers a constructor whose result is created on every
// resolution.
func RegisterTransient[T any](c *Container, ctor any) {
	register[T](c, ctor, scopekit.Transient)
}

// RegisterValue registers an existing value as a singleton.
func RegisterValue[T any](c *Container, val T) {
	c.registrations = append(c.registrations, registration{
		Registration: scopekit.Registration{
			Type:     reflect.TypeFor[T](),
			Lifetime: scopekit.Singleton,
		},
		val: val,
	})
}

// RegisterCatchAll registers a dynamic source that synthesizes a zero value for
// any struct or pointer-to-struct type that has no explicit registration. Its
// catalog entry carries no static type information.
func RegisterCatchAll(c *Container) {
	c.registrations = append(c.registrations, registration{
		Registration: scopekit.Registration{
			Lifetime: scopekit.Transient,
		},
		catchAll: true,
	})
}

func register[T any](c *Container, ctor any, lifetime scopekit.Lifetime) {
	t := reflect.TypeFor[T]()
	v := reflect.ValueOf(ctor)

	if v.Kind() != reflect.Func ||
		v.Type().NumOut() < 1 || v.Type().NumOut() > 2 ||
		!v.Type().Out(0).AssignableTo(t) {
		panic(errors.Errorf("minicontainer: invalid constructor for %s", t))
	}
	if v.Type().NumOut() == 2 && v.Type().Out(1) != typeError {
		panic(errors.Errorf("minicontainer: invalid constructor for %s", t))
	}

	c.registrations = append(c.registrations, registration{
		Registration: scopekit.Registration{
			Type:     t,
			Lifetime: lifetime,
		},
		ctor: v,
	})
}

// Registrations returns a descriptor for every registered service, in
// registration order.
func (c *Container) Registrations() []scopekit.Registration {
	regs := make([]scopekit.Registration, len(c.registrations))
	for i, reg := range c.registrations {
		regs[i] = reg.Registration
	}
	return regs
}

// Resolve returns a service of the given type from the Container.
//
// Scoped services cannot be resolved from the root Container; create a scope
// with [Container.NewScope] first.
func (c *Container) Resolve(ctx context.Context, t reflect.Type, values ...any) (any, error) {
	return c.resolve(ctx, t, values, nil)
}

// NewScope creates a child scope. The provided values can be resolved within
// the scope and are supplied to constructors of scoped services.
func (c *Container) NewScope(_ context.Context, values ...any) (scopekit.Scope, error) {
	return &Scope{
		root:      c,
		values:    values,
		instances: xsync.NewMapOf[reflect.Type, any](),
	}, nil
}

// Close closes every singleton the Container created, in reverse creation
// order.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i](ctx))
	}
	return errors.Wrap(errors.Join(errs...), "minicontainer: close container")
}

// resolve looks up t among extra values first, then registrations. scope is
// nil when resolving from the root Container.
func (c *Container) resolve(ctx context.Context, t reflect.Type, values []any, scope *Scope) (any, error) {
	if t == nil {
		return nil, errors.New("minicontainer: resolve: type is nil")
	}

	for _, val := range values {
		if val == nil {
			continue
		}
		if reflect.TypeOf(val).AssignableTo(t) {
			return val, nil
		}
	}

	reg, ok := c.lookup(t)
	if !ok {
		return nil, errors.Wrapf(scopekit.ErrTypeNotRegistered, "minicontainer: resolve %s", t)
	}

	if reg.catchAll {
		return zeroValueFor(t)
	}
	if reg.val != nil {
		return reg.val, nil
	}

	// Instances cache by the registered type, so interface requests share the
	// instance with concrete requests.
	key := reg.Type

	switch reg.Lifetime {
	case scopekit.Singleton:
		if val, ok := c.instances.Load(key); ok {
			return val, nil
		}
		// Singletons never see scope-local values.
		val, err := c.construct(ctx, reg, nil, nil)
		if err != nil {
			return nil, err
		}
		// Only the instance that wins the cache is handed out, so only it is
		// tracked for disposal. A racing loser is discarded untracked.
		if prev, loaded := c.instances.LoadOrStore(key, val); loaded {
			return prev, nil
		}
		c.trackCloser(val, nil)
		return val, nil

	case scopekit.Scoped:
		if scope == nil {
			return nil, errors.Errorf("minicontainer: resolve %s: scoped service resolved outside a scope", t)
		}
		if val, ok := scope.instances.Load(key); ok {
			return val, nil
		}
		val, err := c.construct(ctx, reg, values, scope)
		if err != nil {
			return nil, err
		}
		if prev, loaded := scope.instances.LoadOrStore(key, val); loaded {
			return prev, nil
		}
		c.trackCloser(val, scope)
		return val, nil

	default:
		val, err := c.construct(ctx, reg, values, scope)
		if err != nil {
			return nil, err
		}
		c.trackCloser(val, scope)
		return val, nil
	}
}

func (c *Container) lookup(t reflect.Type) (registration, bool) {
	var catchAll *registration

	for i, reg := range c.registrations {
		if reg.Type == t {
			return reg, true
		}
		if reg.catchAll && catchAll == nil {
			catchAll = &c.registrations[i]
		}
	}

	// Interface requests match the first assignable concrete registration.
	if t.Kind() == reflect.Interface {
		for _, reg := range c.registrations {
			if reg.Type != nil && reg.Type.Implements(t) {
				return reg, true
			}
		}
	}

	if catchAll != nil {
		return *catchAll, true
	}
	return registration{}, false
}

// construct calls the registration's constructor, resolving each parameter
// from the extra values, the context, or the container.
func (c *Container) construct(ctx context.Context, reg registration, values []any, scope *Scope) (any, error) {
	ctorType := reg.ctor.Type()

	args := make([]reflect.Value, ctorType.NumIn())
	for i := range args {
		paramType := ctorType.In(i)

		if paramType == typeContext {
			args[i] = reflect.ValueOf(ctx)
			continue
		}

		dep, err := c.resolve(ctx, paramType, values, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "minicontainer: construct %s", reg.Type)
		}
		args[i] = safeValue(paramType, dep)
	}

	out := reg.ctor.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, errors.Wrapf(out[1].Interface().(error), "minicontainer: construct %s", reg.Type)
	}

	return out[0].Interface(), nil
}

// trackCloser records the instance for disposal with whichever owns it: the
// scope it was constructed in, or the root Container.
func (c *Container) trackCloser(val any, scope *Scope) {
	closer := closerFor(val)
	if closer == nil {
		return
	}

	if scope != nil {
		scope.mu.Lock()
		scope.closers = append(scope.closers, closer)
		scope.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.closers = append(c.closers, closer)
	c.mu.Unlock()
}

func closerFor(val any) func(context.Context) error {
	switch v := val.(type) {
	case interface{ Close(context.Context) error }:
		return v.Close
	case interface{ Close() error }:
		return func(context.Context) error { return v.Close() }
	case interface{ Close() }:
		return func(context.Context) error {
			v.Close()
			return nil
		}
	default:
		return nil
	}
}

func zeroValueFor(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Struct:
		return reflect.New(t).Elem().Interface(), nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()).Interface(), nil
		}
	}
	return nil, errors.Wrapf(scopekit.ErrTypeNotRegistered, "minicontainer: resolve %s", t)
}

func safeValue(t reflect.Type, val any) reflect.Value {
	if val == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(val)
}
