package lsphost

import (
	"io"

	"github.com/gorilla/websocket"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/internal/transport"
)

type (
	// Conn is a duplex message connection served by a host.
	Conn = transport.Conn
	// FramingMode selects how messages are delimited on a byte stream.
	FramingMode = framing.Mode
)

// Framing modes.
const (
	// FramingHeader prefixes every message with a Content-Length header block.
	FramingHeader = framing.ModeHeader
	// FramingLine writes one message per line.
	FramingLine = framing.ModeLine
)

// ParseFramingMode parses "header" or "line". An empty string means header.
func ParseFramingMode(s string) (FramingMode, error) {
	return framing.ParseMode(s)
}

// NewStreamConn creates a connection reading r and writing w, such as
// stdin and stdout.
func NewStreamConn(r io.Reader, w io.Writer, mode FramingMode) Conn {
	return transport.NewStreamConn(r, w, mode)
}

// NewWebsocketConn creates a connection carrying one message per websocket
// text message.
func NewWebsocketConn(c *websocket.Conn) Conn {
	return transport.NewWebsocketConn(c)
}
