package common

import "errors"

// ErrorCode is code of a JSON-RPC error object.
type ErrorCode int32

// CustomError provides a method of accessing code and data.
type CustomError interface {
	error
	// ErrorCode returns error code.
	ErrorCode() ErrorCode
}

func (p ErrorCode) String() string {
	switch p {
	case ErrorCodeParseError:
		return "PARSE_ERROR"
	case ErrorCodeInvalidRequest:
		return "INVALID_REQUEST"
	case ErrorCodeMethodNotFound:
		return "METHOD_NOT_FOUND"
	case ErrorCodeInvalidParams:
		return "INVALID_PARAMS"
	case ErrorCodeInternalError:
		return "INTERNAL_ERROR"
	case ErrorCodeServerNotInitialized:
		return "SERVER_NOT_INITIALIZED"
	case ErrorCodeUnknownErrorCode:
		return "UNKNOWN_ERROR_CODE"
	case ErrorCodeRequestFailed:
		return "REQUEST_FAILED"
	case ErrorCodeServerCancelled:
		return "SERVER_CANCELLED"
	case ErrorCodeContentModified:
		return "CONTENT_MODIFIED"
	case ErrorCodeRequestCancelled:
		return "REQUEST_CANCELLED"
	default:
		return "UNKNOWN"
	}
}

const (
	// ErrorCodeParseError means invalid JSON was received.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest means the JSON sent is not a valid request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound means the method does not exist or is not available.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams means invalid method parameters.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError means an internal error of the responder.
	ErrorCodeInternalError ErrorCode = -32603
	// ErrorCodeServerNotInitialized means a request arrived before initialize.
	ErrorCodeServerNotInitialized ErrorCode = -32002
	// ErrorCodeUnknownErrorCode is reserved for unclassified failures.
	ErrorCodeUnknownErrorCode ErrorCode = -32001
	// ErrorCodeRequestFailed means the request was valid but failed.
	ErrorCodeRequestFailed ErrorCode = -32803
	// ErrorCodeServerCancelled means the responder cancelled the request.
	ErrorCodeServerCancelled ErrorCode = -32802
	// ErrorCodeContentModified means the result is stale.
	ErrorCodeContentModified ErrorCode = -32801
	// ErrorCodeRequestCancelled means the requester cancelled the request.
	ErrorCodeRequestCancelled ErrorCode = -32800
)

// Error defines.
var (
	ErrInvalidTransport = errors.New("lsphost: invalid transport")
	ErrInvalidMethod    = errors.New("lsphost: method name cannot be empty")
	ErrHandlerNil       = errors.New("lsphost: handler cannot be nil")
	ErrHandlerExist     = errors.New("lsphost: handler exists already")
	ErrDuplicateID      = errors.New("lsphost: request id is still pending")
	ErrInvalidSetting   = errors.New("lsphost: invalid setting")
)
