package transport_test

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken")
}

func TestStreamConn_ConcurrentWrite(t *testing.T) {
	const n = 200
	out := &bytes.Buffer{}
	c := transport.NewStreamConn(bytes.NewReader(nil), out, framing.ModeHeader)
	counter := transport.NewCounter()
	c.SetCounter(counter)

	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Write(framing.NewResultResponse(framing.NumberID(int64(i)), []byte(`"`+strconv.Itoa(i)+`"`)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	total := out.Len()
	d := framing.NewDecoder(framing.ModeHeader, out)
	seen := make(map[int64]bool)
	for {
		msg, err := framing.Decode(d)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		res := msg.(*framing.Response)
		assert.Equal(t, `"`+strconv.FormatInt(res.ID.Number(), 10)+`"`, string(res.Result))
		seen[res.ID.Number()] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, counter.WriteBytes() > 0)
	assert.True(t, counter.WriteBytes() < uint64(total))
}

func TestStreamConn_WriteFailure(t *testing.T) {
	c := transport.NewStreamConn(bytes.NewReader(nil), brokenWriter{}, framing.ModeHeader)
	err := c.Write(&framing.Notification{Method: "x"})
	require.Error(t, err)
	assert.True(t, transport.IsTransportError(err))
}

func TestStreamConn_Read(t *testing.T) {
	raw, err := framing.Encode(framing.ModeLine, &framing.Request{ID: framing.NumberID(7), Method: "m"})
	require.NoError(t, err)
	c := transport.NewStreamConn(bytes.NewReader(raw), io.Discard, framing.ModeLine)
	counter := transport.NewCounter()
	c.SetCounter(counter)
	msg, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, framing.KindRequest, msg.Kind())
	assert.Equal(t, uint64(len(raw)-1), counter.ReadBytes())
	_, err = c.Read()
	assert.Equal(t, io.EOF, err)
}

func TestStreamConn_ReadInvalidJSON(t *testing.T) {
	c := transport.NewStreamConn(bytes.NewReader([]byte("{oops\n")), io.Discard, framing.ModeLine)
	_, err := c.Read()
	require.Error(t, err)
	assert.True(t, framing.IsFramingError(err))
}

func TestStreamConn_ReadAfterClose(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := transport.NewStreamConn(r, io.Discard, framing.ModeHeader)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	_, err := c.Read()
	assert.Equal(t, io.EOF, err)
}
