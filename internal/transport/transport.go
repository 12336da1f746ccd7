package transport

import (
	"context"
	"io"
	"sync"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/logger"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// MessageHandler is an alias of message handler.
type MessageHandler = func(msg framing.Message) (err error)

// EventType selects which incoming messages a handler receives.
type EventType int8

// Incoming message events.
const (
	OnRequest EventType = iota
	OnNotification
	OnResponse

	handlerLen = int(OnResponse) + 1
)

type readResult struct {
	msg framing.Message
	err error
}

// Transport reads messages from a Conn and routes them by kind. It is also
// the single entry for writing messages back to the same Conn.
type Transport struct {
	conn     Conn
	counter  *Counter
	handlers [handlerLen]MessageHandler
	done     chan struct{}
	complete sync.Once
	once     sync.Once
	closers  []func(error)
	fail     sync.Once
	failure  *atomic.Error
}

// NewTransport creates a new transport over the connection.
func NewTransport(c Conn) *Transport {
	counter := NewCounter()
	c.SetCounter(counter)
	return &Transport{
		conn:    c,
		counter: counter,
		done:    make(chan struct{}),
		failure: atomic.NewError(nil),
	}
}

// RegisterHandler binds a handler for an event. Handlers must not block.
func (p *Transport) RegisterHandler(event EventType, handler MessageHandler) {
	p.handlers[int(event)] = handler
}

// OnClose registers a callback invoked when Start returns.
func (p *Transport) OnClose(fn func(error)) {
	if fn != nil {
		p.closers = append(p.closers, fn)
	}
}

// Counter returns the r/w byte counter of current transport.
func (p *Transport) Counter() *Counter {
	return p.counter
}

// Send writes a message. A broken stream is fatal: the first TransportError
// completes the transport and is returned by Start and Err.
func (p *Transport) Send(msg framing.Message) (err error) {
	if p == nil || p.conn == nil {
		err = errTransportClosed
		return
	}
	err = p.conn.Write(msg)
	if err != nil && IsTransportError(err) {
		p.fail.Do(func() {
			p.failure.Store(err)
			p.Complete()
		})
	}
	return
}

// Err returns the write failure which broke the transport, or nil.
func (p *Transport) Err() error {
	return p.failure.Load()
}

// Complete stops reading. The message already handed to routing is still
// delivered; nothing else is read afterwards. It is safe to call many times.
func (p *Transport) Complete() {
	p.complete.Do(func() {
		close(p.done)
	})
}

// Done returns a channel which is closed after Complete.
func (p *Transport) Done() <-chan struct{} {
	return p.done
}

// Close stops reading and closes the underlying connection.
func (p *Transport) Close() (err error) {
	p.once.Do(func() {
		p.Complete()
		err = p.conn.Close()
	})
	return
}

// Start reads and routes messages until the stream ends, Complete is called
// or ctx is done. A clean end of stream returns nil.
func (p *Transport) Start(ctx context.Context) (err error) {
	defer func() {
		for _, fn := range p.closers {
			fn(err)
		}
	}()
	// one decoded message may wait for routing, flush hands it over on Complete
	results := make(chan readResult, 1)
	go p.loopRead(results)
	for {
		select {
		case <-p.done:
			p.flush(results)
			err = p.Err()
			return
		default:
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-p.done:
			p.flush(results)
			err = p.Err()
			return
		case next := <-results:
			if next.err == io.EOF {
				return
			}
			if next.err != nil {
				err = next.err
				return
			}
			if err = p.DispatchMessage(next.msg); err != nil {
				err = errors.Wrap(err, "dispatch message failed")
				return
			}
		}
	}
}

// flush delivers the message loopRead decoded before Complete, if any.
func (p *Transport) flush(results <-chan readResult) {
	select {
	case next := <-results:
		if next.err != nil {
			return
		}
		if err := p.DispatchMessage(next.msg); err != nil {
			logger.Warnf("dispatch buffered message failed: %s", err)
		}
	default:
	}
}

func (p *Transport) loopRead(results chan<- readResult) {
	for {
		msg, err := p.conn.Read()
		select {
		case results <- readResult{msg, err}:
		case <-p.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// DispatchMessage delivers an incoming message to its handler.
func (p *Transport) DispatchMessage(msg framing.Message) (err error) {
	var handler MessageHandler
	switch msg.Kind() {
	case framing.KindRequest:
		handler = p.handlers[OnRequest]
	case framing.KindNotification:
		handler = p.handlers[OnNotification]
	case framing.KindResponse:
		handler = p.handlers[OnResponse]
	}
	if handler == nil {
		logger.Warnf("omit %s: no handler registered", msg)
		return
	}
	return handler(msg)
}
