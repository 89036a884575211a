package pipeline

import (
	"reflect"

	scopekit "github.com/sectrean/scope-kit"
)

// MiddlewareTypes returns the concrete [scopekit.Middleware] implementations
// registered with the container, deduplicated, in registration order.
//
// Registrations without static type information are skipped before any type
// inspection: dynamic sources that synthesize registrations for arbitrary
// types report a nil Type and must not derail discovery. The pipeline's own
// scoped-handler stage is never returned, so discovered middleware cannot wrap
// the wrapper.
//
// The catalog is read fresh on every call; it reflects the container's
// registrations at composition time.
func MiddlewareTypes(c scopekit.Container) []reflect.Type {
	var types []reflect.Type
	seen := make(map[reflect.Type]struct{})

	for _, reg := range c.Registrations() {
		t := reg.Type
		if t == nil {
			continue
		}
		if t.Kind() == reflect.Interface {
			continue
		}
		if !t.Implements(typeMiddleware) {
			continue
		}
		if t == typeScopedHandler {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		types = append(types, t)
	}

	return types
}
