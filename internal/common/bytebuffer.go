package common

import (
	"io"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/atomic"
)

var (
	borrowed = atomic.NewInt32(0)
	bPool    bytebufferpool.Pool
)

// ByteBuff provides byte buffer, which can be used for minimizing.
type ByteBuff bytebufferpool.ByteBuffer

// Len returns size of ByteBuff.
func (p *ByteBuff) Len() (n int) {
	if p != nil {
		n = p.bb().Len()
	}
	return
}

// WriteTo write bytes to writer.
func (p *ByteBuff) WriteTo(w io.Writer) (n int64, err error) {
	return p.bb().WriteTo(w)
}

// Write write bytes to current ByteBuff.
func (p *ByteBuff) Write(bs []byte) (n int, err error) {
	return p.bb().Write(bs)
}

// WriteString write string to current ByteBuff.
func (p *ByteBuff) WriteString(s string) (err error) {
	_, err = p.bb().WriteString(s)
	return
}

// WriteByte write a byte to current ByteBuff.
func (p *ByteBuff) WriteByte(b byte) error {
	return p.bb().WriteByte(b)
}

// Reset clean all bytes.
func (p *ByteBuff) Reset() {
	p.bb().Reset()
}

// Bytes returns all bytes in ByteBuff.
func (p *ByteBuff) Bytes() []byte {
	if p.bb() == nil {
		return nil
	}
	return p.bb().B
}

func (p *ByteBuff) bb() *bytebufferpool.ByteBuffer {
	return (*bytebufferpool.ByteBuffer)(p)
}

// BorrowByteBuffer borrows a ByteBuff from pool.
func BorrowByteBuffer() (bb *ByteBuff) {
	bb = (*ByteBuff)(bPool.Get())
	borrowed.Inc()
	return
}

// ReturnByteBuffer returns a ByteBuff.
func ReturnByteBuffer(b *ByteBuff) {
	bPool.Put((*bytebufferpool.ByteBuffer)(b))
	borrowed.Dec()
}

// CountByteBuffer returns amount of ByteBuff borrowed.
func CountByteBuffer() int {
	return int(borrowed.Load())
}
