package lsphost

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/logger"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

const methodCancelRequest = "$/cancelRequest"

// MessageHook observes a message passing through the client.
type MessageHook = func(msg Message)

// Client issues requests and notifications to the peer and correlates the
// responses the peer sends back.
type Client struct {
	ids       *atomic.Int64
	pending   common.IDMap
	locker    sync.RWMutex
	out       sender
	ready     chan struct{}
	attached  sync.Once
	stopped   <-chan struct{}
	closed    *atomic.Bool
	sending   []MessageHook
	receiving []MessageHook
}

func newClient(stopped <-chan struct{}) *Client {
	return &Client{
		ids:     atomic.NewInt64(0),
		pending: common.NewIDMap(),
		ready:   make(chan struct{}),
		stopped: stopped,
		closed:  atomic.NewBool(false),
	}
}

// OnSending registers a hook called before every outgoing message.
// Hooks must be registered before the host starts serving.
func (c *Client) OnSending(hook MessageHook) {
	if hook != nil {
		c.sending = append(c.sending, hook)
	}
}

// OnReceiving registers a hook called for every response routed to the client.
// Hooks must be registered before the host starts serving.
func (c *Client) OnReceiving(hook MessageHook) {
	if hook != nil {
		c.receiving = append(c.receiving, hook)
	}
}

func (c *Client) attach(out sender) {
	c.locker.Lock()
	c.out = out
	c.locker.Unlock()
	c.attached.Do(func() {
		close(c.ready)
	})
}

// send blocks until the host attaches its transport.
func (c *Client) send(ctx context.Context, msg framing.Message) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	select {
	case <-c.ready:
	case <-c.stopped:
		return ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	c.locker.RLock()
	out := c.out
	c.locker.RUnlock()
	for _, hook := range c.sending {
		hook(msg)
	}
	return out.Send(msg)
}

// Notify sends a notification.
func (c *Client) Notify(ctx context.Context, method string, params interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := marshalParams(params)
	if err != nil {
		return err
	}
	return c.send(ctx, &framing.Notification{Method: method, Params: raw})
}

// CallAsync sends a request with a fresh id and returns its pending call.
// It blocks until the host serves a connection or the session stops.
func (c *Client) CallAsync(method string, params interface{}) (*PendingCall, error) {
	return c.callAsync(context.Background(), method, params)
}

func (c *Client) callAsync(ctx context.Context, method string, params interface{}) (*PendingCall, error) {
	if method == "" {
		return nil, common.ErrInvalidMethod
	}
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	id := framing.NumberID(c.ids.Inc())
	call := newPendingCall(c, id, method)
	if !c.pending.StoreIfAbsent(id.String(), call) {
		return nil, errors.Wrapf(common.ErrDuplicateID, "call %s", method)
	}
	if err := c.send(ctx, &framing.Request{ID: id, Method: method, Params: raw}); err != nil {
		c.pending.Delete(id.String())
		call.resolve(nil, err)
		return nil, err
	}
	return call, nil
}

// Call sends a request and waits for its response, decoding the result into
// result when it is not nil. Cancelling ctx cancels the call.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	call, err := c.callAsync(ctx, method, params)
	if err != nil {
		return err
	}
	return call.Wait(ctx, result)
}

// Pending returns the number of unresolved calls.
func (c *Client) Pending() int {
	return c.pending.Len()
}

func (c *Client) cancel(call *PendingCall) {
	if _, ok := c.pending.LoadAndDelete(call.ID.String()); !ok {
		return
	}
	call.resolve(nil, ErrCancelled)
	raw, _ := json.Marshal(cancelParams{ID: call.ID})
	if err := c.send(context.Background(), &framing.Notification{Method: methodCancelRequest, Params: raw}); err != nil {
		logger.Debugf("send %s for %s failed: %s", methodCancelRequest, call.ID, err)
	}
}

func (c *Client) onResponse(msg framing.Message) error {
	for _, hook := range c.receiving {
		hook(msg)
	}
	res := msg.(*framing.Response)
	if res.ID.IsNull() {
		logger.Warnf("omit %s: peer could not read a request", res)
		return nil
	}
	v, ok := c.pending.LoadAndDelete(res.ID.String())
	if !ok {
		logger.Warnf("omit %s: no pending call with this id", res)
		return nil
	}
	call := v.(*PendingCall)
	if res.Error != nil {
		call.resolve(nil, res.Error)
	} else {
		call.resolve(res.Result, nil)
	}
	return nil
}

// close resolves every pending call with ErrClientClosed.
func (c *Client) close() {
	if !c.closed.CAS(false, true) {
		return
	}
	c.pending.Range(func(k string, v interface{}) bool {
		if _, ok := c.pending.LoadAndDelete(k); ok {
			v.(*PendingCall).resolve(nil, ErrClientClosed)
		}
		return true
	})
}

func marshalParams(params interface{}) (json.RawMessage, error) {
	switch v := params.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshal params failed")
		}
		return raw, nil
	}
}
