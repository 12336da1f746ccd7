package lsphost

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lsphost/lsphost/internal/framing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const transcriptTimeLayout = "20060102150405"

// Transcript writes every message observed by the host into a log.
// Writing never fails the protocol; errors are dropped.
type Transcript struct {
	logger *zap.Logger
	closer io.Closer
}

// OpenTranscript creates messages-<timestamp>.log in dir.
func OpenTranscript(dir string, now time.Time) (*Transcript, error) {
	name := filepath.Join(dir, "messages-"+now.Format(transcriptTimeLayout)+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrap(err, "create transcript failed")
	}
	t := NewTranscript(f)
	t.closer = f
	return t, nil
}

// NewTranscript creates a transcript writing lines to w.
func NewTranscript(w io.Writer) *Transcript {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return &Transcript{
		logger: zap.New(core),
	}
}

// Printf writes a line.
func (t *Transcript) Printf(format string, args ...interface{}) {
	t.logger.Info(fmt.Sprintf(format, args...))
}

// ClientSending logs a message sent by the client role.
func (t *Transcript) ClientSending(msg Message) {
	t.Printf("<C%s", wire(msg))
}

// ClientReceiving logs a message received by the client role.
func (t *Transcript) ClientReceiving(msg Message) {
	t.Printf(">C%s", wire(msg))
}

// Attach hooks the transcript to the client of session.
func (t *Transcript) Attach(s *Session) {
	s.Client().OnSending(t.ClientSending)
	s.Client().OnReceiving(t.ClientReceiving)
}

// Interceptor logs every inbound request before it runs and its response after.
func (t *Transcript) Interceptor() Interceptor {
	return func(ctx context.Context, inv *Invocation, next Invoker) *framing.Response {
		t.Printf("> %s", wire(inv.Message))
		res := next(ctx, inv)
		if !inv.IsNotification() && res != nil {
			t.Printf("< %s", wire(res))
		}
		return res
	}
}

// Close flushes and closes the underlying file, if any.
func (t *Transcript) Close() (err error) {
	_ = t.logger.Sync()
	if t.closer != nil {
		err = t.closer.Close()
	}
	return
}

func wire(msg Message) string {
	if msg == nil {
		return "<nil>"
	}
	b, err := framing.Marshal(msg)
	if err != nil {
		return msg.String()
	}
	return string(b)
}
