package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Detach returns a context that keeps every value of ctx (logger, request ID,
// Sentry hub) but is not cancelled when ctx is cancelled. A deadline set on
// ctx is dropped as well, so callers should apply their own timeout.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// Run executes handler synchronously and converts a panic into an error
//
// Behavior:
//   - Returns the handler's error as is
//   - Recovers from panics, logs them with the stack trace and returns an error
func Run(ctx context.Context, handler func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			ctxlog.From(ctx).Error("panic in handler",
				"recover", r,
				"stack", string(stack))
			err = goerr.New("panic in handler", goerr.V("recover", r))
		}
	}()

	return handler(ctx)
}
