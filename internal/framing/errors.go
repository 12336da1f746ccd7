package framing

import (
	"encoding/json"
	"fmt"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/pkg/errors"
)

// Errors which make a stream unrecoverable.
var (
	ErrMissingContentLength = errors.New("missing Content-Length header")
	ErrInvalidContentLength = errors.New("invalid Content-Length header")
	ErrInvalidHeader        = errors.New("invalid header line")
	ErrFrameTooLarge        = errors.New("frame exceeds max size")
	ErrTruncatedFrame       = errors.New("stream ended inside a frame")
	ErrInvalidMessage       = errors.New("invalid message")
)

// FramingError means the stream cannot be resynchronized.
type FramingError struct {
	Err error
}

func (e *FramingError) Error() string {
	return "framing error: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error.
func (e *FramingError) Cause() error {
	return e.Err
}

// IsFramingError returns true if err is or wraps a FramingError.
func IsFramingError(err error) bool {
	var fe *FramingError
	return errors.As(err, &fe)
}

// Error is a JSON-RPC error object. It is carried by a Response and
// can be returned by handlers to choose the code sent to the peer.
type Error struct {
	Code    common.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data,omitempty"`
}

// NewError creates a new Error.
func NewError(code common.ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code common.ErrorCode, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(%d): %s", e.Code, e.Code, e.Message)
}

// ErrorCode returns error code.
func (e *Error) ErrorCode() common.ErrorCode {
	return e.Code
}
