package ofserver

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/flowforge/goflow10/internal/ofconn"
)

// conn holds the per-connection state owned by one connection's task:
// the framer, its identity, and a logger carrying that identity as
// structured fields. No field here is touched from another connection's
// goroutine except through the registry.
type conn struct {
	handle     ConnHandle
	remoteAddr string
	framer     *ofconn.Framer
	logger     *slog.Logger

	closeOnce sync.Once
}

func newConn(handle ConnHandle, nc net.Conn, logger *slog.Logger) *conn {
	remote := nc.RemoteAddr().String()
	return &conn{
		handle:     handle,
		remoteAddr: remote,
		framer:     ofconn.NewFramer(nc),
		logger: logger.With(
			slog.Uint64("conn_id", uint64(handle)),
			slog.String("remote", remote),
		),
	}
}

// recv blocks for the next complete message on this connection.
func (c *conn) recv(ctx context.Context) ([]byte, error) {
	return c.framer.Recv(ctx)
}

// send writes a fully-encoded message as a single contiguous frame.
// Safe to call from any goroutine; Framer.Send is its own serialization
// point so concurrent handler sends to the same connection never
// interleave bytes.
func (c *conn) send(buf []byte) error {
	return c.framer.Send(buf)
}

// close closes the underlying connection exactly once.
func (c *conn) close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.framer.Close()
	})
	return err
}
