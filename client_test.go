package lsphost_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lsphost/lsphost"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startClient(t *testing.T) (*lsphost.Host, *peer) {
	h, err := lsphost.NewHost().Build()
	require.NoError(t, err)
	p, c := newPeer(t, framing.ModeHeader)
	serve(t, h, c)
	return h, p
}

func (p *peer) outgoing() *framing.Request {
	msg := p.next()
	req, ok := msg.(*framing.Request)
	require.True(p.t, ok, "expect a request, got %s", msg)
	return req
}

func TestClient_Call(t *testing.T) {
	h, p := startClient(t)
	client := h.Client()

	type config struct {
		Tabs int `json:"tabs"`
	}
	result := make(chan error, 1)
	var got []config
	go func() {
		result <- client.Call(context.Background(), "workspace/configuration", map[string]interface{}{
			"items": []string{"editor"},
		}, &got)
	}()
	req := p.outgoing()
	assert.Equal(t, "workspace/configuration", req.Method)
	assert.JSONEq(t, `{"items":["editor"]}`, string(req.Params))
	p.send(framing.NewResultResponse(req.ID, json.RawMessage(`[{"tabs":4}]`)))
	require.NoError(t, <-result)
	assert.Equal(t, []config{{Tabs: 4}}, got)
	assert.Equal(t, 0, client.Pending())
}

func TestClient_CallError(t *testing.T) {
	h, p := startClient(t)
	call, err := h.Client().CallAsync("window/showMessageRequest", nil)
	require.NoError(t, err)
	req := p.outgoing()
	assert.Equal(t, call.ID, req.ID)
	assert.Nil(t, req.Params)
	p.send(framing.NewErrorResponse(req.ID, lsphost.NewError(lsphost.ErrorCodeRequestFailed, "dismissed")))

	_, err = call.Result()
	require.Error(t, err)
	var e *lsphost.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, lsphost.ErrorCodeRequestFailed, e.Code)
	assert.Equal(t, "dismissed", e.Message)
}

func TestClient_CancelFreesSlot(t *testing.T) {
	h, p := startClient(t)
	client := h.Client()

	call, err := client.CallAsync("workspace/applyEdit", map[string]string{"label": "rename"})
	require.NoError(t, err)
	req := p.outgoing()
	assert.Equal(t, int64(1), req.ID.Number())
	assert.Equal(t, 1, client.Pending())

	call.Cancel()
	call.Cancel()
	_, err = call.Result()
	assert.Equal(t, lsphost.ErrCancelled, err)
	assert.Equal(t, 0, client.Pending())

	msg := p.next()
	n, ok := msg.(*framing.Notification)
	require.True(t, ok, "expect $/cancelRequest, got %s", msg)
	assert.Equal(t, "$/cancelRequest", n.Method)
	assert.JSONEq(t, `{"id":1}`, string(n.Params))

	// late response is discarded
	p.send(framing.NewResultResponse(req.ID, json.RawMessage(`true`)))

	call2, err := client.CallAsync("workspace/applyEdit", nil)
	require.NoError(t, err)
	req2 := p.outgoing()
	assert.Equal(t, int64(2), req2.ID.Number())
	p.send(framing.NewResultResponse(req2.ID, json.RawMessage(`{"applied":true}`)))
	var out struct {
		Applied bool `json:"applied"`
	}
	require.NoError(t, call2.Wait(context.Background(), &out))
	assert.True(t, out.Applied)
	assert.Equal(t, 0, client.Pending())
}

func TestClient_CallTimeout(t *testing.T) {
	h, p := startClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := h.Client().Call(ctx, "workspace/configuration", nil, nil)
	assert.Equal(t, lsphost.ErrCancelled, err)
	assert.Equal(t, "workspace/configuration", p.outgoing().Method)
	assert.Equal(t, "$/cancelRequest", p.next().(*framing.Notification).Method)

	assert.Equal(t, context.Canceled, h.Client().Call(canceled(), "x", nil, nil))
	assert.Equal(t, context.Canceled, h.Client().Notify(canceled(), "x", nil))
}

func canceled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestClient_Notify(t *testing.T) {
	h, p := startClient(t)
	require.NoError(t, h.Client().Notify(context.Background(), "window/logMessage", map[string]interface{}{
		"type":    3,
		"message": "hello",
	}))
	n, ok := p.next().(*framing.Notification)
	require.True(t, ok)
	assert.Equal(t, "window/logMessage", n.Method)
	assert.JSONEq(t, `{"type":3,"message":"hello"}`, string(n.Params))

	assert.Error(t, h.Client().Notify(context.Background(), "bad", make(chan int)))
	_, err := h.Client().CallAsync("", nil)
	assert.Error(t, err)
}

func TestClient_ClosedOnStop(t *testing.T) {
	h, p := startClient(t)
	call, err := h.Client().CallAsync("workspace/configuration", nil)
	require.NoError(t, err)
	p.outgoing()
	h.Session().StopServer()
	_, err = call.Result()
	assert.Equal(t, lsphost.ErrClientClosed, err)
	_, err = h.Client().CallAsync("workspace/configuration", nil)
	assert.Equal(t, lsphost.ErrClientClosed, err)
}

func TestClient_NotAttached(t *testing.T) {
	s := lsphost.NewSession()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, context.DeadlineExceeded, s.Client().Call(ctx, "x", nil, nil))
	assert.Equal(t, 0, s.Client().Pending())

	blocked := make(chan error, 1)
	go func() {
		_, err := s.Client().CallAsync("x", nil)
		blocked <- err
	}()
	s.StopServer()
	select {
	case err := <-blocked:
		assert.Equal(t, lsphost.ErrClientClosed, err)
	case <-time.After(waitTimeout):
		require.FailNow(t, "call was not released by stop")
	}
}

func TestClient_CallBeforeServe(t *testing.T) {
	h, err := lsphost.NewHost().Build()
	require.NoError(t, err)
	result := make(chan error, 1)
	go func() {
		result <- h.Client().Notify(context.Background(), "window/logMessage", map[string]int{"type": 4})
	}()
	time.Sleep(20 * time.Millisecond)
	p, c := newPeer(t, framing.ModeHeader)
	serve(t, h, c)
	n, ok := p.next().(*framing.Notification)
	require.True(t, ok)
	assert.Equal(t, "window/logMessage", n.Method)
	require.NoError(t, <-result)
}

func TestClient_Hooks(t *testing.T) {
	h, err := lsphost.NewHost().Build()
	require.NoError(t, err)
	sent := make(chan lsphost.Message, 4)
	received := make(chan lsphost.Message, 4)
	h.Client().OnSending(func(msg lsphost.Message) { sent <- msg })
	h.Client().OnReceiving(func(msg lsphost.Message) { received <- msg })
	p, c := newPeer(t, framing.ModeHeader)
	serve(t, h, c)

	call, err := h.Client().CallAsync("ping", nil)
	require.NoError(t, err)
	req := p.outgoing()
	p.send(framing.NewResultResponse(req.ID, json.RawMessage(`"pong"`)))
	raw, err := call.Result()
	require.NoError(t, err)
	assert.Equal(t, `"pong"`, string(raw))

	assert.Equal(t, framing.KindRequest, (<-sent).Kind())
	assert.Equal(t, framing.KindResponse, (<-received).Kind())
}
