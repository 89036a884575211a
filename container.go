package scopekit

import (
	"context"
	"reflect"
)

// Scope allows you to resolve services for the duration of a request.
//
// Scope is the smallest contract a dependency injection container must satisfy
// to be driven by this package. Containers implement it for their root scope as
// well as for child scopes created with [Container.NewScope].
type Scope interface {
	// Resolve returns a service of the given type from the Scope.
	//
	// Extra values are made available to the service's constructor, taking
	// precedence over registered services. If the type is not registered, the
	// returned error matches [ErrTypeNotRegistered].
	Resolve(ctx context.Context, t reflect.Type, values ...any) (any, error)
}

// Container is a root scope that can create child scopes and enumerate its
// service registrations.
type Container interface {
	Scope

	// NewScope creates a child scope.
	//
	// The provided values are registered with the new scope and can be used as
	// dependencies of scoped services.
	NewScope(ctx context.Context, values ...any) (Scope, error)

	// Registrations returns a descriptor for every registered service, in
	// registration order.
	Registrations() []Registration
}

// Registration describes a single service registration in a [Container].
//
// A nil Type marks a dynamic registration source that synthesizes registrations
// for arbitrary types on demand. Such sources carry no static type information
// and must be skipped by callers that inspect Type.
type Registration struct {
	Type     reflect.Type
	Tag      any
	Lifetime Lifetime
}
