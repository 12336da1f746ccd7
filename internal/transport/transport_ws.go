package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lsphost/lsphost/logger"
	"github.com/pkg/errors"
)

const defaultWebsocketPath = "/"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Acceptor is invoked once for every accepted connection.
type Acceptor = func(ctx context.Context, c Conn)

// WebsocketServer accepts message connections over websocket.
type WebsocketServer struct {
	addr      string
	path      string
	onceClose sync.Once
	server    *http.Server
}

// NewWebsocketServer creates a websocket server listening on addr.
func NewWebsocketServer(addr string, path string) *WebsocketServer {
	if path == "" {
		path = defaultWebsocketPath
	}
	return &WebsocketServer{
		addr: addr,
		path: path,
	}
}

// Handler returns a http handler which upgrades requests and hands the
// connection to acceptor.
func Handler(ctx context.Context, acceptor Acceptor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("create websocket conn failed: %s", err.Error())
			return
		}
		go acceptor(ctx, NewWebsocketConn(c))
	})
}

// Close shuts the server down.
func (p *WebsocketServer) Close() (err error) {
	p.onceClose.Do(func() {
		if p.server != nil {
			err = p.server.Shutdown(context.Background())
		}
	})
	return
}

// Listen serves until ctx is done or the server is closed.
func (p *WebsocketServer) Listen(ctx context.Context, acceptor Acceptor) (err error) {
	mux := http.NewServeMux()
	mux.Handle(p.path, Handler(ctx, acceptor))
	p.server = &http.Server{
		Addr:    p.addr,
		Handler: mux,
	}

	stop := make(chan struct{})
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer func() {
			_ = p.Close()
			close(stop)
		}()
		<-ctx.Done()
	}()
	err = p.server.ListenAndServe()
	if err == http.ErrServerClosed || isClosedErr(err) {
		err = nil
	} else {
		err = errors.Wrap(err, "listen websocket server failed")
	}
	cancel()
	<-stop
	return
}

// DialWebsocket connects to a websocket endpoint.
func DialWebsocket(ctx context.Context, url string) (Conn, error) {
	d := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 45 * time.Second,
	}
	c, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial websocket failed")
	}
	return NewWebsocketConn(c), nil
}
