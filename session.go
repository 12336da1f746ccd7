package lsphost

import (
	"context"
	"encoding/json"

	"go.uber.org/atomic"
)

// Session is the process-wide state shared by all handler invocations.
// It carries the negotiated client capabilities and the single stop signal
// of the host.
type Session struct {
	ctx          context.Context
	cancel       context.CancelFunc
	stopped      *atomic.Bool
	capabilities atomic.Value
	client       *Client
}

// NewSession creates a new session with an outbound client attached.
func NewSession() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ctx:     ctx,
		cancel:  cancel,
		stopped: atomic.NewBool(false),
		client:  newClient(ctx.Done()),
	}
}

// Context returns a context which is cancelled when the server stops.
// Every handler invocation context derives from it.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done returns a channel which is closed when the server stops.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Client returns the client used to call the peer.
func (s *Session) Client() *Client {
	return s.client
}

// StopServer requests the host to stop reading and exit.
// Invocations still running observe their context cancelled.
func (s *Session) StopServer() {
	if s.stopped.CAS(false, true) {
		s.cancel()
	}
}

// IsStopped returns true if StopServer has been called.
func (s *Session) IsStopped() bool {
	return s.stopped.Load()
}

// SetClientCapabilities stores the capabilities announced by the peer.
func (s *Session) SetClientCapabilities(caps json.RawMessage) {
	s.capabilities.Store(caps)
}

// ClientCapabilities returns the capabilities announced by the peer, or nil.
func (s *Session) ClientCapabilities() json.RawMessage {
	v, _ := s.capabilities.Load().(json.RawMessage)
	return v
}
