// Package lsphost hosts a language server over a duplex JSON-RPC stream.
// Inbound requests and notifications are dispatched to registered handlers
// while the session client calls the peer over the same connection.
package lsphost

import (
	"context"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/transport"
	"github.com/lsphost/lsphost/logger"
	"github.com/lsphost/lsphost/scheduler"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultWorkerPoolSize = 10000

// Option changes the behaviour of a host.
type Option int

const (
	// OptionConsistentResponseSequence writes responses in the order the
	// requests arrived, even when handlers finish out of order.
	OptionConsistentResponseSequence Option = 1 << iota
)

type (
	// HostBuilder can be used to build a host.
	HostBuilder interface {
		// Session sets the session shared by handlers. A new one is created by default.
		Session(s *Session) HostBuilder
		// Options enables host options.
		Options(opts ...Option) HostBuilder
		// Scheduler sets the pool running handlers. The default is an elastic pool owned by the host.
		Scheduler(s scheduler.Scheduler) HostBuilder
		// Register binds a handler to a method name.
		Register(method string, h Handler) HostBuilder
		// Intercept appends an interceptor. The first one appended is the outermost.
		Intercept(i Interceptor) HostBuilder
		// UseCancellationHandling serves $/cancelRequest and answers
		// RequestCancelled for cancelled requests.
		UseCancellationHandling() HostBuilder
		// Build validates the configuration and returns the host.
		Build() (*Host, error)
	}
)

// NewHost returns a builder of a host.
func NewHost() HostBuilder {
	return &hostBuilder{
		registry: newRegistry(),
	}
}

type hostBuilder struct {
	session      *Session
	options      Option
	scheduler    scheduler.Scheduler
	registry     *registry
	interceptors []Interceptor
	cancellation bool
}

func (p *hostBuilder) Session(s *Session) HostBuilder {
	p.session = s
	return p
}

func (p *hostBuilder) Options(opts ...Option) HostBuilder {
	for _, it := range opts {
		p.options |= it
	}
	return p
}

func (p *hostBuilder) Scheduler(s scheduler.Scheduler) HostBuilder {
	p.scheduler = s
	return p
}

func (p *hostBuilder) Register(method string, h Handler) HostBuilder {
	p.registry.register(method, h)
	return p
}

func (p *hostBuilder) Intercept(i Interceptor) HostBuilder {
	if i == nil {
		p.registry.err = multierr.Append(p.registry.err, errors.Wrap(common.ErrHandlerNil, "intercept"))
		return p
	}
	p.interceptors = append(p.interceptors, i)
	return p
}

func (p *hostBuilder) UseCancellationHandling() HostBuilder {
	if p.cancellation {
		return p
	}
	p.cancellation = true
	p.interceptors = append(p.interceptors, cancellationInterceptor)
	p.registry.register(methodCancelRequest, HandlerFunc(func(ctx context.Context, inv *Invocation) (interface{}, error) {
		var params cancelParams
		if err := decodeParams(inv.Params, &params); err != nil {
			return nil, err
		}
		// the dispatcher serving this invocation owns the request
		if inv.dispatcher != nil && !inv.dispatcher.cancel(params.ID) {
			logger.Debugf("omit %s: request %s is not in flight", methodCancelRequest, params.ID)
		}
		return nil, nil
	}))
	return p
}

func (p *hostBuilder) Build() (*Host, error) {
	if p.registry.err != nil {
		return nil, p.registry.err
	}
	h := &Host{
		session:      p.session,
		registry:     p.registry,
		interceptors: p.interceptors,
		scheduler:    p.scheduler,
		ordered:      p.options&OptionConsistentResponseSequence != 0,
		serving:      atomic.NewBool(false),
	}
	if h.session == nil {
		h.session = NewSession()
	}
	if h.scheduler == nil {
		h.scheduler = scheduler.NewElasticScheduler(defaultWorkerPoolSize)
		h.ownScheduler = true
	}
	if logger.IsDebugEnabled() {
		logger.Debugf("host built with methods %v", p.registry.methods())
	}
	return h, nil
}

// Host serves one duplex connection: inbound requests go to the registered
// handlers and the session client calls the peer over the same connection.
type Host struct {
	session      *Session
	registry     *registry
	interceptors []Interceptor
	scheduler    scheduler.Scheduler
	ownScheduler bool
	ordered      bool
	serving      *atomic.Bool
}

// Session returns the session of current host.
func (h *Host) Session() *Session {
	return h.session
}

// Client returns the client calling the peer.
func (h *Host) Client() *Client {
	return h.session.client
}

// Serve serves the connection until the session is stopped, the peer closes
// the stream, the stream breaks or ctx is done. Responses of requests already
// read are written before the connection is closed. A clean stop returns nil.
func (h *Host) Serve(ctx context.Context, c transport.Conn) (err error) {
	if c == nil {
		return common.ErrInvalidTransport
	}
	if !h.serving.CAS(false, true) {
		return ErrAlreadyServing
	}
	tp := transport.NewTransport(c)
	d := newDispatcher(h.session, h.registry, h.interceptors, h.scheduler, tp, h.ordered)
	client := h.session.client

	tp.RegisterHandler(transport.OnRequest, d.onRequest)
	tp.RegisterHandler(transport.OnNotification, d.onNotification)
	tp.RegisterHandler(transport.OnResponse, client.onResponse)
	tp.OnClose(func(err error) {
		if err != nil {
			logger.Errorf("transport exit: %s", err)
		}
		h.session.StopServer()
	})
	client.attach(tp)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tp.Start(gctx)
	})
	g.Go(func() error {
		select {
		case <-h.session.Done():
		case <-gctx.Done():
			h.session.StopServer()
		}
		tp.Complete()
		return nil
	})
	err = g.Wait()

	d.drain()
	if err == nil {
		// a write which broke the stream after reading stopped
		err = tp.Err()
	}
	client.close()
	if e := tp.Close(); e != nil {
		logger.Debugf("close transport failed: %s", e)
	}
	if h.ownScheduler {
		_ = h.scheduler.Close()
	}
	counter := tp.Counter()
	logger.Infof("host exit: read %d bytes, wrote %d bytes", counter.ReadBytes(), counter.WriteBytes())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return
}
