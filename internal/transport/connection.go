package transport

import (
	"io"

	"github.com/lsphost/lsphost/internal/framing"
)

// Conn is a message connection. Write is safe for concurrent use and never
// interleaves two messages; Read is used by a single reader.
type Conn interface {
	io.Closer
	// SetCounter bind a counter which can count r/w bytes.
	SetCounter(c *Counter)
	// Read reads next message from Conn.
	Read() (framing.Message, error)
	// Write writes a message to Conn.
	Write(msg framing.Message) error
}
