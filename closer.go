package scopekit

import (
	"context"
)

// Closer is the preferred disposal interface for scopes.
//
// [CloseScope] also accepts the other compatible Close method signatures:
//
//	Close(context.Context) error
//	Close(context.Context)
//	Close() error
//	Close()
type Closer interface {
	Close(ctx context.Context) error
}

// CloseScope closes a scope through whichever Close method signature it
// exposes, checked in the order listed on [Closer].
//
// Returns nil if the scope has no Close method. Scopes obtained from an
// external source may legitimately not be closable by this package.
func CloseScope(ctx context.Context, scope Scope) error {
	switch c := scope.(type) {
	case Closer:
		return c.Close(ctx)
	case closerWithContextNoError:
		c.Close(ctx)
		return nil
	case closerNoContextWithError:
		return c.Close()
	case closerNoContextNoError:
		c.Close()
		return nil
	default:
		return nil
	}
}

type closerWithContextNoError interface {
	Close(ctx context.Context)
}

type closerNoContextWithError interface {
	Close() error
}

type closerNoContextNoError interface {
	Close()
}
