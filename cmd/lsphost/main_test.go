package main

import (
	"io"
	"strings"
	"testing"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenWriter struct{}

func (brokenWriter) Write(b []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestExecute_ExitCode(t *testing.T) {
	t.Setenv(envFraming, "")
	t.Setenv(envListen, "")
	args := []string{"lsphost"}

	assert.Equal(t, 0, execute(args, strings.NewReader(""), io.Discard), "peer closed")
	assert.Equal(t, 1, execute(args, strings.NewReader("Content-Length: abc\r\n\r\n"), io.Discard), "framing error")

	b, err := framing.Encode(framing.ModeHeader, &framing.Request{ID: framing.NumberID(1), Method: "shutdown"})
	require.NoError(t, err)
	assert.Equal(t, 1, execute(args, strings.NewReader(string(b)), brokenWriter{}), "write failure")

	t.Setenv(envFraming, "line")
	assert.Equal(t, 0, execute(args, strings.NewReader("{\"jsonrpc\":\"2.0\",\"method\":\"exit\"}\n"), io.Discard))

	t.Setenv(envFraming, "xml")
	assert.Equal(t, 1, execute(args, strings.NewReader(""), io.Discard), "unknown framing")
}
