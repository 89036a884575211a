package scopekit

import (
	"errors"
)

var (
	// ErrTypeNotRegistered is returned when a type is not registered.
	ErrTypeNotRegistered = errors.New("type not registered")
	// ErrNoScope is returned when no request scope is stored on the context.
	ErrNoScope = errors.New("no request scope on context")
)
