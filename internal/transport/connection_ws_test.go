package transport_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsocketConn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// echo requests back as results
	server := httptest.NewServer(transport.Handler(ctx, func(ctx context.Context, c transport.Conn) {
		defer c.Close()
		for {
			msg, err := c.Read()
			if err != nil {
				return
			}
			if req, ok := msg.(*framing.Request); ok {
				_ = c.Write(framing.NewResultResponse(req.ID, req.Params))
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	c, err := transport.DialWebsocket(ctx, url)
	require.NoError(t, err)
	counter := transport.NewCounter()
	c.SetCounter(counter)

	err = c.Write(&framing.Request{ID: framing.StringID("a"), Method: "echo", Params: []byte(`[1,2]`)})
	require.NoError(t, err)

	got := make(chan framing.Message, 1)
	go func() {
		msg, err := c.Read()
		assert.NoError(t, err)
		got <- msg
	}()
	select {
	case msg := <-got:
		res, ok := msg.(*framing.Response)
		require.True(t, ok)
		assert.Equal(t, framing.StringID("a"), res.ID)
		assert.JSONEq(t, `[1,2]`, string(res.Result))
	case <-time.After(3 * time.Second):
		require.Fail(t, "no response")
	}
	assert.True(t, counter.ReadBytes() > 0)
	assert.True(t, counter.WriteBytes() > 0)
	require.NoError(t, c.Close())
}

func TestWebsocketConn_PeerClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server := httptest.NewServer(transport.Handler(ctx, func(ctx context.Context, c transport.Conn) {
		_ = c.Close()
	}))
	defer server.Close()

	c, err := transport.DialWebsocket(ctx, "ws"+strings.TrimPrefix(server.URL, "http"))
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Read()
	assert.Equal(t, io.EOF, err)
}
