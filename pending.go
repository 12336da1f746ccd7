package lsphost

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/pkg/errors"
)

// PendingCall is an outbound request waiting for its response.
type PendingCall struct {
	ID     framing.ID
	Method string

	client *Client
	done   chan struct{}
	once   sync.Once
	result json.RawMessage
	err    error
}

func newPendingCall(c *Client, id framing.ID, method string) *PendingCall {
	return &PendingCall{
		ID:     id,
		Method: method,
		client: c,
		done:   make(chan struct{}),
	}
}

// Done returns a channel which is closed once the call is resolved.
func (p *PendingCall) Done() <-chan struct{} {
	return p.done
}

// Result returns the raw result or the error of a resolved call.
// It blocks until the call is resolved.
func (p *PendingCall) Result() (json.RawMessage, error) {
	<-p.done
	return p.result, p.err
}

// Cancel resolves the call with ErrCancelled unless it is resolved already.
// The peer is told with a best-effort $/cancelRequest notification.
func (p *PendingCall) Cancel() {
	p.client.cancel(p)
}

// Wait blocks until the call is resolved or ctx is done, in which case the
// call is cancelled. A non-nil v receives the decoded result.
func (p *PendingCall) Wait(ctx context.Context, v interface{}) error {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.Cancel()
		<-p.done
	}
	if p.err != nil {
		return p.err
	}
	if v == nil || len(p.result) == 0 {
		return nil
	}
	if err := json.Unmarshal(p.result, v); err != nil {
		return errors.Wrapf(err, "decode result of %s failed", p.Method)
	}
	return nil
}

func (p *PendingCall) resolve(result json.RawMessage, err error) {
	p.once.Do(func() {
		p.result = result
		p.err = err
		close(p.done)
	})
}
