package framing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

const protocolVersion = "2.0"

var nullResult = json.RawMessage("null")

// Kind is the tag of a Message.
type Kind int8

// All message kinds.
const (
	KindRequest Kind = iota
	KindNotification
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "Request"
	case KindNotification:
		return "Notification"
	case KindResponse:
		return "Response"
	default:
		return "Unknown"
	}
}

// Message is a Request, a Notification or a Response.
type Message interface {
	fmt.Stringer
	// Kind returns the tag of the message.
	Kind() Kind
}

// Request expects exactly one Response with the same ID.
type Request struct {
	ID     ID
	Method string
	Params json.RawMessage
}

// Kind returns KindRequest.
func (p *Request) Kind() Kind {
	return KindRequest
}

func (p *Request) String() string {
	return fmt.Sprintf("Request{id=%s, method=%s, params=%s}", p.ID, p.Method, p.Params)
}

// Notification never gets a Response.
type Notification struct {
	Method string
	Params json.RawMessage
}

// Kind returns KindNotification.
func (p *Notification) Kind() Kind {
	return KindNotification
}

func (p *Notification) String() string {
	return fmt.Sprintf("Notification{method=%s, params=%s}", p.Method, p.Params)
}

// Response carries either Result or Error.
type Response struct {
	ID     ID
	Result json.RawMessage
	Error  *Error
}

// NewResultResponse creates a successful Response.
func NewResultResponse(id ID, result json.RawMessage) *Response {
	return &Response{
		ID:     id,
		Result: result,
	}
}

// NewErrorResponse creates a failed Response.
func NewErrorResponse(id ID, err *Error) *Response {
	return &Response{
		ID:    id,
		Error: err,
	}
}

// Kind returns KindResponse.
func (p *Response) Kind() Kind {
	return KindResponse
}

func (p *Response) String() string {
	if p.Error != nil {
		return fmt.Sprintf("Response{id=%s, error=%s}", p.ID, p.Error)
	}
	return fmt.Sprintf("Response{id=%s, result=%s}", p.ID, p.Result)
}

type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Marshal serializes a message into its JSON wire shape.
func Marshal(msg Message) ([]byte, error) {
	w := wireMessage{JSONRPC: protocolVersion}
	switch v := msg.(type) {
	case *Request:
		w.ID, _ = v.ID.MarshalJSON()
		w.Method = v.Method
		w.Params = v.Params
	case *Notification:
		w.Method = v.Method
		w.Params = v.Params
	case *Response:
		w.ID, _ = v.ID.MarshalJSON()
		if v.Error != nil {
			w.Error = v.Error
		} else if len(v.Result) == 0 {
			w.Result = nullResult
		} else {
			w.Result = v.Result
		}
	default:
		return nil, errors.Errorf("unsupported message type %T", msg)
	}
	return json.Marshal(&w)
}

// Unmarshal parses one serialized message and resolves its kind.
func Unmarshal(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(ErrInvalidMessage, err.Error())
	}
	// an id which is present but null still makes a Response
	hasID := len(w.ID) > 0
	var id ID
	if hasID {
		if err := id.UnmarshalJSON(w.ID); err != nil {
			return nil, errors.Wrap(ErrInvalidMessage, err.Error())
		}
	}
	switch {
	case w.Method != "" && hasID:
		return &Request{
			ID:     id,
			Method: w.Method,
			Params: normalize(w.Params),
		}, nil
	case w.Method != "":
		return &Notification{
			Method: w.Method,
			Params: normalize(w.Params),
		}, nil
	case hasID:
		resp := &Response{
			ID:    id,
			Error: w.Error,
		}
		if w.Error == nil {
			resp.Result = normalize(w.Result)
		}
		return resp, nil
	default:
		return nil, errors.Wrapf(ErrInvalidMessage, "neither method nor id in %q", abbr(data))
	}
}

// normalize turns an absent or null value into nil.
func normalize(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || bytes.Equal(raw, nullResult) {
		return nil
	}
	return raw
}

func abbr(data []byte) []byte {
	const limit = 64
	if len(data) > limit {
		return data[:limit]
	}
	return data
}
