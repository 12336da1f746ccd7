package framing

import (
	"bytes"
	"strconv"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/pkg/errors"
)

// WriteFrame appends one framed payload to bb.
func WriteFrame(mode Mode, bb *common.ByteBuff, payload []byte) (err error) {
	switch mode {
	case ModeLine:
		if bytes.IndexByte(payload, '\n') >= 0 {
			return errors.Wrap(ErrInvalidMessage, "payload contains a line terminator")
		}
		if _, err = bb.Write(payload); err != nil {
			return
		}
		err = bb.WriteByte('\n')
	default:
		if err = bb.WriteString("Content-Length: "); err != nil {
			return
		}
		if err = bb.WriteString(strconv.Itoa(len(payload))); err != nil {
			return
		}
		if _, err = bb.Write(headerDelimiter); err != nil {
			return
		}
		_, err = bb.Write(payload)
	}
	return
}

// Encode serializes a message and frames it.
func Encode(mode Mode, msg Message) ([]byte, error) {
	payload, err := Marshal(msg)
	if err != nil {
		return nil, err
	}
	bb := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(bb)
	if err = WriteFrame(mode, bb, payload); err != nil {
		return nil, err
	}
	return append([]byte(nil), bb.Bytes()...), nil
}

// Decode reads the next frame from d and parses it. A payload which cannot be
// parsed is a framing error.
func Decode(d Decoder) (Message, error) {
	raw, err := d.Read()
	if err != nil {
		return nil, err
	}
	msg, err := Unmarshal(raw)
	if err != nil {
		return nil, &FramingError{Err: err}
	}
	return msg, nil
}
