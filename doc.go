/*
Package scopekit connects a dependency injection container to an HTTP request
pipeline: a child scope is opened for each request, stored on the request context,
used to resolve container-managed middleware and handlers, and closed when the
request completes.

scopekit does not include a container. Any container that can resolve services by
[reflect.Type] and enumerate its registrations can be used by implementing
[Container] and [Scope].

See the pipeline package for the request-scope middleware and for resolving
middleware and terminal handlers from the container.
*/
package scopekit
