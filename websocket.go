package lsphost

import (
	"context"
	"net/http"

	"github.com/lsphost/lsphost/internal/transport"
	"github.com/lsphost/lsphost/logger"
)

// HostFactory creates a host for one accepted connection.
type HostFactory = func() (*Host, error)

// WebsocketHandler returns a http handler serving every upgraded websocket
// connection with a fresh host.
func WebsocketHandler(ctx context.Context, newHost HostFactory) http.Handler {
	return transport.Handler(ctx, acceptor(newHost))
}

// ListenWebsocket listens on addr and serves every websocket connection
// with a fresh host until ctx is done.
func ListenWebsocket(ctx context.Context, addr string, path string, newHost HostFactory) error {
	return transport.NewWebsocketServer(addr, path).Listen(ctx, acceptor(newHost))
}

func acceptor(newHost HostFactory) transport.Acceptor {
	return func(ctx context.Context, c transport.Conn) {
		h, err := newHost()
		if err != nil {
			logger.Errorf("create host failed: %s", err)
			_ = c.Close()
			return
		}
		if err := h.Serve(ctx, c); err != nil {
			logger.Warnf("serve websocket connection failed: %s", err)
		}
	}
}
