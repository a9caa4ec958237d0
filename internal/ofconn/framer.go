// Package ofconn provides OpenFlow header-based length framing over a
// net.Conn: a read loop that reads the 8-byte header shared by every
// OpenFlow message, takes the total length from its bytes 2-3, then reads
// the remainder, handing one complete message at a time to the caller.
package ofconn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/flowforge/goflow10/internal/of10"
)

// ErrClosed is returned by Recv/Send once the Framer has been closed.
var ErrClosed = errors.New("framer closed")

// messagePool reuses message-sized byte slices across the hot path,
// mirroring the buffer-pooling discipline of a pooled packet allocator.
var messagePool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 2048)
		return &buf
	},
}

// Framer wraps a net.Conn with OpenFlow message framing. Recv expects a
// single reading goroutine; Send may be called from any number of
// goroutines and serializes them itself.
type Framer struct {
	conn   net.Conn
	reader *bufio.Reader

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
}

// NewFramer wraps conn for OpenFlow message framing.
func NewFramer(conn net.Conn) *Framer {
	return &Framer{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 4096),
	}
}

// Recv blocks until one complete OpenFlow message has been read, ctx is
// cancelled, or the connection fails. The returned slice comes from a
// shared pool and stays valid until the caller hands it to
// ReleaseMessage; callers that need to retain payload bytes past that
// point must copy them.
func (f *Framer) Recv(ctx context.Context) ([]byte, error) {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			_ = f.conn.SetReadDeadline(time.Unix(0, 1))
		})
		defer stop()
	}

	header := make([]byte, of10.HeaderLen)
	if _, err := io.ReadFull(f.reader, header); err != nil {
		return nil, f.wrapReadErr(err)
	}

	length := uint16(header[2])<<8 | uint16(header[3])
	if length < of10.HeaderLen {
		return nil, fmt.Errorf("header length %d below minimum %d: %w", length, of10.HeaderLen, of10.ErrLengthInconsistent)
	}

	bodyLen := int(length) - of10.HeaderLen
	bufp := messagePool.Get().(*[]byte)
	buf := (*bufp)[:0]
	if cap(buf) < int(length) {
		buf = make([]byte, 0, length)
	}
	buf = append(buf, header...)

	if bodyLen > 0 {
		bodyStart := len(buf)
		buf = buf[:bodyStart+bodyLen]
		if _, err := io.ReadFull(f.reader, buf[bodyStart:]); err != nil {
			messagePool.Put(bufp)
			return nil, f.wrapReadErr(err)
		}
	}

	*bufp = buf
	return buf, nil
}

// ReleaseMessage returns a buffer previously returned by Recv to the
// shared pool once the caller is done with it.
func ReleaseMessage(buf []byte) {
	messagePool.Put(&buf)
}

func (f *Framer) wrapReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("connection closed: %w", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("read cancelled: %w", context.Canceled)
	}
	return fmt.Errorf("read message: %w", err)
}

// Send writes a fully-encoded message as a single contiguous write.
// Concurrent Send calls are serialized, so bytes from two outbound
// messages never interleave on the wire.
func (f *Framer) Send(buf []byte) error {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return ErrClosed
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	_, err := f.conn.Write(buf)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (f *Framer) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.conn.Close()
}
