package transport

import (
	"io"
	"net"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// isClosedErr reports errors caused by a stream closed locally.
func isClosedErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}
