package lsphost

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/logger"
	"github.com/lsphost/lsphost/scheduler"
)

type sender interface {
	Send(msg framing.Message) error
}

// dispatcher runs inbound requests and notifications on the scheduler.
type dispatcher struct {
	session   *Session
	registry  *registry
	invoke    Invoker
	scheduler scheduler.Scheduler
	out       sender
	sequencer *sequencer
	inflight  common.IDMap
	wg        sync.WaitGroup
	// only touched by the routing goroutine
	nextSeq uint64
}

func newDispatcher(session *Session, r *registry, interceptors []Interceptor, sc scheduler.Scheduler, out sender, ordered bool) *dispatcher {
	d := &dispatcher{
		session:   session,
		registry:  r,
		scheduler: sc,
		out:       out,
		inflight:  common.NewIDMap(),
	}
	d.invoke = chain(interceptors, d.handle)
	if ordered {
		d.sequencer = newSequencer(d.write)
	}
	return d
}

func (d *dispatcher) onRequest(msg framing.Message) error {
	req := msg.(*framing.Request)
	seq := d.nextSeq
	d.nextSeq++

	ctx, cancel := context.WithCancel(d.session.Context())
	inv := &Invocation{
		Session:    d.session,
		Method:     req.Method,
		ID:         req.ID,
		Params:     req.Params,
		Message:    req,
		seq:        seq,
		cancel:     cancel,
		dispatcher: d,
	}
	if !d.inflight.StoreIfAbsent(req.ID.String(), inv) {
		cancel()
		logger.Warnf("request id %s is in flight already", req.ID)
		d.respond(seq, framing.NewErrorResponse(req.ID, framing.Errorf(common.ErrorCodeInvalidRequest, "duplicate request id %s", req.ID)))
		return nil
	}
	if _, ok := d.registry.lookup(req.Method); !ok {
		// no handler to wait for, answer in place
		d.finish(ctx, inv)
		return nil
	}
	d.wg.Add(1)
	err := d.scheduler.Do(ctx, func(ctx context.Context) {
		defer d.wg.Done()
		d.finish(ctx, inv)
	})
	if err != nil {
		d.wg.Done()
		d.inflight.Delete(req.ID.String())
		cancel()
		logger.Errorf("schedule %s failed: %s", req, err)
		d.respond(seq, framing.NewErrorResponse(req.ID, framing.NewError(common.ErrorCodeInternalError, err.Error())))
	}
	return nil
}

func (d *dispatcher) finish(ctx context.Context, inv *Invocation) {
	res := d.safeInvoke(ctx, inv)
	d.inflight.Delete(inv.ID.String())
	inv.cancel()
	d.respond(inv.seq, res)
}

func (d *dispatcher) onNotification(msg framing.Message) error {
	n := msg.(*framing.Notification)
	if _, ok := d.registry.lookup(n.Method); !ok {
		// $/ notifications are optional
		if !strings.HasPrefix(n.Method, "$/") {
			logger.Warnf("no handler for notification %s", n.Method)
		}
		return nil
	}
	inv := &Invocation{
		Session:      d.session,
		Method:       n.Method,
		Params:       n.Params,
		Message:      n,
		notification: true,
		dispatcher:   d,
	}
	d.wg.Add(1)
	err := d.scheduler.Do(d.session.Context(), func(ctx context.Context) {
		defer d.wg.Done()
		if res := d.safeInvoke(ctx, inv); res != nil && res.Error != nil {
			logger.Warnf("notification %s failed: %s", n.Method, res.Error)
		}
	})
	if err != nil {
		d.wg.Done()
		logger.Errorf("schedule %s failed: %s", n, err)
	}
	return nil
}

func (d *dispatcher) safeInvoke(ctx context.Context, inv *Invocation) (res *framing.Response) {
	defer func() {
		if e := recover(); e != nil {
			logger.Errorf("handle %s panic: %s", inv.Method, common.ToError(e))
			res = framing.NewErrorResponse(inv.ID, framing.Errorf(common.ErrorCodeInternalError, "%s", common.ToError(e)))
		}
	}()
	res = d.invoke(ctx, inv)
	if res == nil {
		res = framing.NewResultResponse(inv.ID, nil)
	}
	return
}

// handle is the innermost invoker, calling the registered handler.
func (d *dispatcher) handle(ctx context.Context, inv *Invocation) *framing.Response {
	h, ok := d.registry.lookup(inv.Method)
	if !ok {
		return framing.NewErrorResponse(inv.ID, framing.Errorf(common.ErrorCodeMethodNotFound, "method not found: %s", inv.Method))
	}
	result, err := h.Handle(ctx, inv)
	if err != nil {
		return framing.NewErrorResponse(inv.ID, toResponseError(err))
	}
	if inv.notification {
		return nil
	}
	raw, err := marshalResult(result)
	if err != nil {
		return framing.NewErrorResponse(inv.ID, framing.Errorf(common.ErrorCodeInternalError, "marshal result failed: %s", err.Error()))
	}
	return framing.NewResultResponse(inv.ID, raw)
}

func marshalResult(result interface{}) (json.RawMessage, error) {
	switch v := result.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

func (d *dispatcher) respond(seq uint64, res *framing.Response) {
	if d.sequencer != nil {
		d.sequencer.push(seq, res)
		return
	}
	d.write(res)
}

func (d *dispatcher) write(res *framing.Response) {
	if err := d.out.Send(res); err != nil {
		logger.Errorf("send %s failed: %s", res, err)
	}
}

// cancel cancels the in-flight request with id.
func (d *dispatcher) cancel(id framing.ID) bool {
	v, ok := d.inflight.Load(id.String())
	if !ok {
		return false
	}
	v.(*Invocation).Cancel()
	return true
}

// drain waits for all scheduled invocations to respond.
func (d *dispatcher) drain() {
	d.wg.Wait()
	if d.sequencer != nil {
		if n := d.sequencer.pending(); n > 0 {
			logger.Warnf("%d responses are still held back", n)
		}
	}
}
