package framing

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode is the framing discipline of a byte stream.
type Mode int8

const (
	// ModeHeader frames each message with a Content-Length header block.
	ModeHeader Mode = iota
	// ModeLine puts each message on its own line.
	ModeLine
)

func (m Mode) String() string {
	switch m {
	case ModeHeader:
		return "header"
	case ModeLine:
		return "line"
	default:
		return "unknown"
	}
}

// ParseMode parses a framing mode name. An empty name means ModeHeader.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "header", "content-length":
		return ModeHeader, nil
	case "line", "lines":
		return ModeLine, nil
	default:
		return ModeHeader, errors.Errorf("unknown framing mode %q", s)
	}
}
