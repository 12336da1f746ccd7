package lsphost

import (
	"context"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/pkg/errors"
)

var (
	// ErrCancelled is returned by outbound calls cancelled before a response arrived.
	ErrCancelled = errors.New("lsphost: call cancelled")
	// ErrClientClosed is returned by outbound calls when the host is gone.
	ErrClientClosed = errors.New("lsphost: client closed")
	// ErrAlreadyServing is returned when a host is served twice.
	ErrAlreadyServing = errors.New("lsphost: host is serving already")
)

type (
	// ErrorCode is the code of a JSON-RPC error object.
	ErrorCode = common.ErrorCode
	// Error is a JSON-RPC error object. Handlers return it to choose the code
	// the peer receives.
	Error = framing.Error
	// ID is a request id, either a number or a string.
	ID = framing.ID
	// Message is a Request, Notification or Response.
	Message = framing.Message
)

// Error codes.
const (
	ErrorCodeParseError           = common.ErrorCodeParseError
	ErrorCodeInvalidRequest       = common.ErrorCodeInvalidRequest
	ErrorCodeMethodNotFound       = common.ErrorCodeMethodNotFound
	ErrorCodeInvalidParams        = common.ErrorCodeInvalidParams
	ErrorCodeInternalError        = common.ErrorCodeInternalError
	ErrorCodeServerNotInitialized = common.ErrorCodeServerNotInitialized
	ErrorCodeRequestFailed        = common.ErrorCodeRequestFailed
	ErrorCodeContentModified      = common.ErrorCodeContentModified
	ErrorCodeRequestCancelled     = common.ErrorCodeRequestCancelled
)

// NewError creates a JSON-RPC error object.
func NewError(code ErrorCode, message string) *Error {
	return framing.NewError(code, message)
}

// Errorf creates a JSON-RPC error object with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return framing.Errorf(code, format, args...)
}

// IsFramingError reports whether err is a malformed stream error.
func IsFramingError(err error) bool {
	return framing.IsFramingError(err)
}

// toResponseError converts a handler error into the error object sent to the peer.
func toResponseError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return framing.NewError(common.ErrorCodeRequestCancelled, "request cancelled")
	}
	var custom common.CustomError
	if errors.As(err, &custom) {
		return framing.NewError(custom.ErrorCode(), err.Error())
	}
	return framing.NewError(common.ErrorCodeInternalError, err.Error())
}
