package framing

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID identifies a request and its response. JSON-RPC allows numbers and strings.
type ID struct {
	num      int64
	str      string
	isString bool
	isNull   bool
}

// NumberID returns a numeric ID.
func NumberID(n int64) ID {
	return ID{num: n}
}

// StringID returns a string ID.
func StringID(s string) ID {
	return ID{str: s, isString: true}
}

// NullID returns the null ID a peer answers with when it could not read
// the id of a request.
func NullID() ID {
	return ID{isNull: true}
}

// IsNull returns true if the ID was sent as JSON null.
func (id ID) IsNull() bool {
	return id.isNull
}

// IsString returns true if the ID was sent as a JSON string.
func (id ID) IsString() bool {
	return id.isString
}

// Number returns the numeric value of the ID.
func (id ID) Number() int64 {
	return id.num
}

func (id ID) String() string {
	if id.isNull {
		return "null"
	}
	if id.isString {
		return strconv.Quote(id.str)
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNull {
		return []byte("null"), nil
	}
	if id.isString {
		return json.Marshal(id.str)
	}
	return strconv.AppendInt(nil, id.num, 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullResult) {
		*id = NullID()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.Errorf("invalid id %s", data)
	}
	*id = NumberID(n)
	return nil
}
