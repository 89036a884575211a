/*
Package pipeline composes HTTP pipelines whose middleware and handlers are
resolved from a [scopekit.Container].

A pipeline is assembled with a [Builder]. [RequestScope] installs the stage
that opens a child scope per request; after it, stages registered with
[UseMiddleware] or [UseAllMiddleware] resolve their middleware type from the
request scope, and [RunFromScope] resolves the terminal handler.

Example:

	c := newContainer() // any scopekit.Container implementation

	b := pipeline.New()

	err := pipeline.RequestScope(b, c)
	if err != nil {
		log.Fatal(err)
	}

	err = pipeline.UseAllMiddleware(b, c)
	if err != nil {
		log.Fatal(err)
	}

	err = pipeline.RunFromScope(b, func(h *HomeHandler, w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	})
	if err != nil {
		log.Fatal(err)
	}

	http.ListenAndServe(":8080", b.Build())

The handler returned by [Builder.Build] is a plain [http.Handler] and can be
mounted on any router.
*/
package pipeline
