package transport

import (
	"bufio"
	"io"
	"sync"

	"github.com/lsphost/lsphost/internal/common"
	"github.com/lsphost/lsphost/internal/framing"
	"github.com/lsphost/lsphost/logger"
	"github.com/pkg/errors"
)

type streamConn struct {
	mode    framing.Mode
	decoder framing.Decoder
	writer  *bufio.Writer
	closers []io.Closer
	locker  sync.Mutex
	counter *Counter
	once    sync.Once
}

func (p *streamConn) SetCounter(c *Counter) {
	p.counter = c
}

func (p *streamConn) Read() (msg framing.Message, err error) {
	raw, err := p.decoder.Read()
	if err == io.EOF || framing.IsFramingError(err) {
		return
	}
	if isClosedErr(err) {
		err = io.EOF
		return
	}
	if err != nil {
		err = &TransportError{Op: "read", Err: err}
		return
	}
	p.counter.incrReadBytes(len(raw))
	msg, err = framing.Unmarshal(raw)
	if err != nil {
		err = &framing.FramingError{Err: err}
		return
	}
	if logger.IsDebugEnabled() {
		logger.Debugf("<--- rcv: %s", msg)
	}
	return
}

func (p *streamConn) Write(msg framing.Message) (err error) {
	payload, err := framing.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message failed")
	}
	bb := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(bb)
	if err = framing.WriteFrame(p.mode, bb, payload); err != nil {
		return
	}

	p.locker.Lock()
	_, err = bb.WriteTo(p.writer)
	if err == nil {
		err = p.writer.Flush()
	}
	p.locker.Unlock()

	if err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	p.counter.incrWriteBytes(len(payload))
	if logger.IsDebugEnabled() {
		logger.Debugf("---> snd: %s", msg)
	}
	return
}

func (p *streamConn) Close() (err error) {
	p.once.Do(func() {
		for _, c := range p.closers {
			if e := c.Close(); e != nil && err == nil {
				err = e
			}
		}
	})
	return
}

// NewStreamConn creates a connection over a byte stream pair, such as stdin
// and stdout. Close closes r and w when they are io.Closer.
func NewStreamConn(r io.Reader, w io.Writer, mode framing.Mode) Conn {
	var closers []io.Closer
	if c, ok := r.(io.Closer); ok {
		closers = append(closers, c)
	}
	if c, ok := w.(io.Closer); ok && !sameCloser(c, r) {
		closers = append(closers, c)
	}
	return &streamConn{
		mode:    mode,
		decoder: framing.NewDecoder(mode, r),
		writer:  bufio.NewWriterSize(w, common.DefaultWriteBuffSize),
		closers: closers,
	}
}

func sameCloser(c io.Closer, r io.Reader) (same bool) {
	defer func() {
		// uncomparable dynamic types
		if recover() != nil {
			same = false
		}
	}()
	rc, ok := r.(io.Closer)
	return ok && rc == c
}
