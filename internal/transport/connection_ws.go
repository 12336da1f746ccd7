package transport

import (
	"io"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/logger"
	"github.com/pkg/errors"
)

// wsConnection carries one message per websocket data message, so it needs no
// framing of its own.
type wsConnection struct {
	c       *websocket.Conn
	locker  sync.Mutex
	counter *Counter
}

func (p *wsConnection) SetCounter(c *Counter) {
	p.counter = c
}

func (p *wsConnection) Read() (msg framing.Message, err error) {
	_, raw, err := p.c.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			err = io.EOF
		} else {
			err = &TransportError{Op: "read", Err: err}
		}
		return
	}
	p.counter.incrReadBytes(len(raw))
	msg, err = framing.Unmarshal(raw)
	if err != nil {
		err = &framing.FramingError{Err: err}
		return
	}
	if logger.IsDebugEnabled() {
		logger.Debugf("<--- rcv: %s", msg)
	}
	return
}

func (p *wsConnection) Write(msg framing.Message) (err error) {
	payload, err := framing.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message failed")
	}
	p.locker.Lock()
	err = p.c.WriteMessage(websocket.TextMessage, payload)
	p.locker.Unlock()
	if err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	p.counter.incrWriteBytes(len(payload))
	if logger.IsDebugEnabled() {
		logger.Debugf("---> snd: %s", msg)
	}
	return
}

func (p *wsConnection) Close() error {
	p.locker.Lock()
	_ = p.c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	p.locker.Unlock()
	return p.c.Close()
}

// NewWebsocketConn creates a connection over an established websocket.
func NewWebsocketConn(c *websocket.Conn) Conn {
	return &wsConnection{
		c: c,
	}
}
