package common

import (
	"github.com/pkg/errors"
)

// Frame and buffer settings.
var (
	// MaxFrameSize is the largest payload accepted by a frame decoder.
	MaxFrameSize = 64 * 1024 * 1024
	// MaxHeaderSize is the largest header block accepted before the blank line.
	MaxHeaderSize = 8 * 1024
	// DefaultReadBuffSize is the initial size of frame decoder buffers.
	DefaultReadBuffSize = 16 * 1024
	// DefaultWriteBuffSize is the size of the buffered writer of stream connections.
	DefaultWriteBuffSize = 16 * 1024
)

// SetMaxFrameSize set the largest accepted frame payload.
func SetMaxFrameSize(n int) error {
	if n < 1 {
		return errors.Wrapf(ErrInvalidSetting, "max frame size: %d", n)
	}
	MaxFrameSize = n
	return nil
}

// SetBuffSize set stream connection R/W buff size.
func SetBuffSize(r, w int) error {
	if r < 1 {
		return errors.Wrapf(ErrInvalidSetting, "read buff size: %d", r)
	}
	if w < 1 {
		return errors.Wrapf(ErrInvalidSetting, "write buff size: %d", w)
	}
	DefaultReadBuffSize = r
	DefaultWriteBuffSize = w
	return nil
}
