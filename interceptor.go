package lsphost

import (
	"context"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
)

// Invoker runs an invocation and returns its response.
// For notifications the returned response is only inspected for errors.
type Invoker func(ctx context.Context, inv *Invocation) *framing.Response

// Interceptor wraps an invocation. It calls next to continue the chain, or
// returns its own response to short-circuit it.
type Interceptor func(ctx context.Context, inv *Invocation, next Invoker) *framing.Response

// chain composes interceptors around last. The first interceptor is the outermost.
func chain(interceptors []Interceptor, last Invoker) Invoker {
	invoker := last
	for i := len(interceptors) - 1; i >= 0; i-- {
		invoker = wrap(interceptors[i], invoker)
	}
	return invoker
}

func wrap(interceptor Interceptor, next Invoker) Invoker {
	return func(ctx context.Context, inv *Invocation) *framing.Response {
		return interceptor(ctx, inv, next)
	}
}

// cancellationInterceptor answers RequestCancelled for requests cancelled
// before or while they run.
func cancellationInterceptor(ctx context.Context, inv *Invocation, next Invoker) *framing.Response {
	if inv.IsNotification() {
		return next(ctx, inv)
	}
	if ctx.Err() != nil {
		return cancelledResponse(inv.ID)
	}
	res := next(ctx, inv)
	if res != nil && res.Error != nil && ctx.Err() != nil {
		return cancelledResponse(inv.ID)
	}
	return res
}

func cancelledResponse(id framing.ID) *framing.Response {
	return framing.NewErrorResponse(id, framing.NewError(common.ErrorCodeRequestCancelled, "request cancelled"))
}

type cancelParams struct {
	ID framing.ID `json:"id"`
}
