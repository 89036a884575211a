package pipeline

import (
	"context"
	"log/slog"

	scopekit "github.com/sectrean/scope-kit"
	"github.com/sectrean/scope-kit/internal/errors"
)

// ShutdownContextKey is the builder property key under which hosts publish a
// [context.Context] that is canceled at application shutdown. See
// [WithShutdownContext].
const ShutdownContextKey = "scopekit:shutdown-context"

// DisposeOnShutdown closes the given scope when the host signals shutdown.
//
// The shutdown signal is the [context.Context] published in the builder
// properties under [ShutdownContextKey]. If no signal has been published, or
// the published context can never be canceled, DisposeOnShutdown does nothing.
//
// Disposal is fire-and-forget: in-flight requests are not canceled, and close
// errors are logged to [slog.Default].
func DisposeOnShutdown(b *Builder, scope scopekit.Scope) error {
	if b == nil {
		return errors.New("pipeline.DisposeOnShutdown: pipeline is nil")
	}
	if scope == nil {
		return errors.New("pipeline.DisposeOnShutdown: scope is nil")
	}

	ctx, ok := b.Properties()[ShutdownContextKey].(context.Context)
	if !ok {
		return nil
	}

	done := ctx.Done()
	if done == nil {
		// A Background-like context can never be canceled.
		return nil
	}

	go func() {
		<-done

		closeCtx := context.WithoutCancel(ctx)
		if err := scopekit.CloseScope(closeCtx, scope); err != nil {
			slog.Error("error closing scope on shutdown", "error", err)
		}
	}()

	return nil
}
