package lsphost

import (
	"context"
	"encoding/json"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
)

// Handler serves one method.
// The result is marshaled into the response; it is ignored for notifications.
type Handler interface {
	Handle(ctx context.Context, inv *Invocation) (result interface{}, err error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions as handlers.
type HandlerFunc func(ctx context.Context, inv *Invocation) (result interface{}, err error)

// Handle calls fn(ctx, inv).
func (fn HandlerFunc) Handle(ctx context.Context, inv *Invocation) (interface{}, error) {
	return fn(ctx, inv)
}

// RequestHandler adapts a typed function to a Handler.
// Params that cannot be decoded into P yield InvalidParams and fn is not called.
func RequestHandler[P, R any](fn func(ctx context.Context, s *Session, params P) (R, error)) Handler {
	return HandlerFunc(func(ctx context.Context, inv *Invocation) (interface{}, error) {
		var params P
		if err := decodeParams(inv.Params, &params); err != nil {
			return nil, err
		}
		return fn(ctx, inv.Session, params)
	})
}

// NotificationHandler adapts a typed function without result to a Handler.
func NotificationHandler[P any](fn func(ctx context.Context, s *Session, params P) error) Handler {
	return HandlerFunc(func(ctx context.Context, inv *Invocation) (interface{}, error) {
		var params P
		if err := decodeParams(inv.Params, &params); err != nil {
			return nil, err
		}
		return nil, fn(ctx, inv.Session, params)
	})
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return framing.Errorf(common.ErrorCodeInvalidParams, "invalid params: %s", err.Error())
	}
	return nil
}

// Invocation is one inbound request or notification being handled.
type Invocation struct {
	Session *Session
	Method  string
	// ID is the zero ID for notifications.
	ID     framing.ID
	Params json.RawMessage
	// Message is the inbound message as read from the stream.
	Message framing.Message

	notification bool
	seq          uint64
	cancel       context.CancelFunc
	dispatcher   *dispatcher
}

// IsNotification returns true if no response will be sent for this invocation.
func (inv *Invocation) IsNotification() bool {
	return inv.notification
}

// Cancel cancels the invocation context.
func (inv *Invocation) Cancel() {
	if inv.cancel != nil {
		inv.cancel()
	}
}
