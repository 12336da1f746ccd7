package framing

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/pkg/errors"
)

const headerContentLength = "content-length"

var (
	headerDelimiter = []byte("\r\n\r\n")
	lineDelimiter   = []byte("\r\n")
)

// Decoder reads raw frame payloads from a stream.
type Decoder interface {
	// Read reads next frame payload. It returns io.EOF at a clean end of stream
	// and a *FramingError if the stream is malformed.
	Read() ([]byte, error)
}

// NewDecoder creates a decoder of given mode.
func NewDecoder(mode Mode, r io.Reader) Decoder {
	if mode == ModeLine {
		return NewLineFrameDecoder(r)
	}
	return NewHeaderFrameDecoder(r)
}

// HeaderFrameDecoder decodes frames which start with a Content-Length header block.
type HeaderFrameDecoder bufio.Scanner

// Read reads next raw frame payload.
func (p *HeaderFrameDecoder) Read() (raw []byte, err error) {
	scanner := (*bufio.Scanner)(p)
	if !scanner.Scan() {
		err = scanErr(scanner.Err())
		return
	}
	raw = scanner.Bytes()
	return
}

func splitHeaderFrame(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return
	}
	end := bytes.Index(data, headerDelimiter)
	if end < 0 {
		if atEOF {
			err = ErrTruncatedFrame
		} else if len(data) > common.MaxHeaderSize {
			err = ErrMissingContentLength
		}
		return
	}
	n, err := parseContentLength(data[:end])
	if err != nil {
		return
	}
	start := end + len(headerDelimiter)
	frameSize := start + n
	if frameSize <= len(data) {
		return frameSize, data[start:frameSize], nil
	}
	if atEOF {
		err = ErrTruncatedFrame
	}
	return
}

func parseContentLength(header []byte) (n int, err error) {
	found := false
	for _, line := range bytes.Split(header, lineDelimiter) {
		if len(line) == 0 {
			continue
		}
		idx := bytes.IndexByte(line, ':')
		if idx < 1 {
			err = errors.Wrapf(ErrInvalidHeader, "%q", line)
			return
		}
		name := bytes.ToLower(bytes.TrimSpace(line[:idx]))
		if string(name) != headerContentLength {
			continue
		}
		value := string(bytes.TrimSpace(line[idx+1:]))
		n, err = strconv.Atoi(value)
		if err != nil || n < 0 {
			err = errors.Wrapf(ErrInvalidContentLength, "%q", value)
			return
		}
		found = true
	}
	if !found {
		err = ErrMissingContentLength
		return
	}
	if n > common.MaxFrameSize {
		err = errors.Wrapf(ErrFrameTooLarge, "%d > %d", n, common.MaxFrameSize)
	}
	return
}

// NewHeaderFrameDecoder creates a new header frame decoder.
func NewHeaderFrameDecoder(r io.Reader) *HeaderFrameDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Split(splitHeaderFrame)
	buf := make([]byte, 0, common.DefaultReadBuffSize)
	scanner.Buffer(buf, common.MaxFrameSize+common.MaxHeaderSize)
	return (*HeaderFrameDecoder)(scanner)
}

// LineFrameDecoder decodes frames delimited by line terminators.
type LineFrameDecoder bufio.Scanner

// Read reads next non-blank line.
func (p *LineFrameDecoder) Read() (raw []byte, err error) {
	scanner := (*bufio.Scanner)(p)
	for scanner.Scan() {
		raw = bytes.TrimSpace(scanner.Bytes())
		if len(raw) > 0 {
			return
		}
	}
	raw = nil
	err = scanErr(scanner.Err())
	return
}

// NewLineFrameDecoder creates a new line frame decoder.
func NewLineFrameDecoder(r io.Reader) *LineFrameDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	buf := make([]byte, 0, common.DefaultReadBuffSize)
	scanner.Buffer(buf, common.MaxFrameSize)
	return (*LineFrameDecoder)(scanner)
}

// scanErr converts a scanner error: split failures are framing errors,
// anything else comes from the underlying reader.
func scanErr(err error) error {
	switch {
	case err == nil:
		return io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return &FramingError{Err: errors.Wrap(ErrFrameTooLarge, err.Error())}
	case isSplitErr(err):
		return &FramingError{Err: err}
	default:
		return err
	}
}

func isSplitErr(err error) bool {
	for _, it := range []error{
		ErrMissingContentLength,
		ErrInvalidContentLength,
		ErrInvalidHeader,
		ErrFrameTooLarge,
		ErrTruncatedFrame,
	} {
		if errors.Is(err, it) {
			return true
		}
	}
	return false
}
