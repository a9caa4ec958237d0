// Package ofserver is the OpenFlow 1.0 switch server: a TCP accept loop
// that performs the OpenFlow handshake on each connection, frames and
// decodes switch-to-controller messages, dispatches them to a Handler in
// wire order, and accepts controller-to-switch messages for transmission.
package ofserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowforge/goflow10/internal/of10"
	"github.com/flowforge/goflow10/internal/ofconn"
	"github.com/flowforge/goflow10/internal/ofmetrics"
)

// ErrUnknownConn is returned by Send when no live connection matches the
// given handle (already closed, or never existed).
var ErrUnknownConn = errors.New("unknown connection handle")

// Server accepts OpenFlow switch connections, performs the handshake,
// and dispatches decoded messages to a Handler.
type Server struct {
	addr            string
	handler         Handler
	logger          *slog.Logger
	metrics         *ofmetrics.Collector
	shutdownTimeout time.Duration

	reg        *registry
	nextHandle atomic.Uint64
}

// New creates a Server listening on addr. handler is invoked once per
// decoded switch-to-controller message, serialized per connection.
func New(addr string, handler Handler, logger *slog.Logger, metrics *ofmetrics.Collector, shutdownTimeout time.Duration) *Server {
	return &Server{
		addr:            addr,
		handler:         handler,
		logger:          logger,
		metrics:         metrics,
		shutdownTimeout: shutdownTimeout,
		reg:             newRegistry(),
	}
}

// Run listens and serves until ctx is cancelled, then closes all
// connections and returns once the accept loop and every connection task
// have exited. The shutdown timeout does not bound that wait: a handler
// call that never returns keeps Run from returning.
func (s *Server) Run(ctx context.Context) error {
	lc := listenConfig()
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.RunListener(ctx, ln)
}

// RunListener serves OpenFlow connections accepted from ln until ctx is
// cancelled, then closes all connections and returns once the accept
// loop and every connection task have exited; as with Run, a handler
// call that never returns keeps it waiting. Run is the common case;
// RunListener exists so tests can drive the server over a listener they
// control.
func (s *Server) RunListener(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.acceptLoop(gCtx, g, ln)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return s.shutdown(ln)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}

// acceptLoop accepts connections until ctx is done or the listener fails,
// spawning one task per connection onto g.
func (s *Server) acceptLoop(ctx context.Context, g *errgroup.Group, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		handle := ConnHandle(s.nextHandle.Add(1))
		c := newConn(handle, nc, s.logger)
		s.reg.add(c)
		s.metrics.ConnAccepted()

		g.Go(func() error {
			s.serveConn(ctx, c)
			return nil
		})
	}
}

// shutdown closes the listener and every live connection, which
// unblocks any pending Recv. The configured timeout bounds only this
// closing step; it does not wait for or cut short connection tasks
// that are still inside a handler call.
func (s *Server) shutdown(ln net.Listener) error {
	if err := ln.Close(); err != nil {
		s.logger.Warn("close listener", slog.String("error", err.Error()))
	}

	deadline := time.NewTimer(s.shutdownTimeout)
	defer deadline.Stop()

	done := make(chan struct{})
	go func() {
		s.reg.each(func(c *conn) {
			_ = c.close()
		})
		close(done)
	}()

	select {
	case <-done:
	case <-deadline.C:
		s.logger.Warn("shutdown timed out closing connections",
			slog.Duration("timeout", s.shutdownTimeout))
	}
	return nil
}

// serveConn performs the handshake and then the decode/dispatch loop for
// one connection, closing it on any read or protocol failure.
func (s *Server) serveConn(ctx context.Context, c *conn) {
	defer func() {
		s.reg.remove(c.handle)
		_ = c.close()
		s.metrics.ConnClosed()
	}()

	if err := s.handshake(ctx, c); err != nil {
		c.logger.Info("handshake failed", slog.String("error", err.Error()))
		return
	}

	for {
		buf, err := c.recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			s.metrics.IncError(errorKind(err))
			c.logger.Info("connection closing on read error", slog.String("error", err.Error()))
			return
		}

		xid, msg, err := of10.DecodeSC(buf)
		if err != nil {
			ofconn.ReleaseMessage(buf)
			kind := errorKind(err)
			s.metrics.IncError(kind)
			c.logger.Warn("decode failed", slog.String("kind", kind), slog.String("error", err.Error()))
			s.sendProtocolError(c, xid, err)
			return
		}

		// msg holds sub-slices of buf (payload/data fields decoded
		// zero-copy); buf must stay out of the shared pool until the
		// handler, which owns msg for the duration of the call, returns.
		s.metrics.IncMessageReceived(messageTypeName(msg))
		s.handler(c.handle, xid, msg)
		ofconn.ReleaseMessage(buf)
	}
}

// handshake sends Hello and waits for the peer's Hello. A version
// mismatch sends Error(HelloFailed, IncompatibleVersions) before closing.
func (s *Server) handshake(ctx context.Context, c *conn) error {
	hello, err := of10.EncodeSC(0, of10.HelloMessage{})
	if err != nil {
		return fmt.Errorf("encode hello: %w", err)
	}
	if err := c.send(hello); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	buf, err := c.recv(ctx)
	if err != nil {
		return fmt.Errorf("recv hello: %w", err)
	}

	xid, msg, err := of10.DecodeCS(buf)
	if err != nil {
		ofconn.ReleaseMessage(buf)
		if errors.Is(err, of10.ErrVersionMismatch) {
			s.sendProtocolError(c, xid, err)
		}
		return fmt.Errorf("decode hello: %w", err)
	}

	_, ok := msg.(of10.HelloMessage)
	ofconn.ReleaseMessage(buf)
	if !ok {
		return fmt.Errorf("expected Hello, got %T", msg)
	}
	return nil
}

// sendProtocolError best-effort-sends an OpenFlow Error message before
// the connection is closed; send failures are logged, not propagated,
// since the connection is already on its way out.
func (s *Server) sendProtocolError(c *conn, xid of10.TransactionID, cause error) {
	code := uint16(0)
	errType := of10.ErrorTypeBadRequest
	if errors.Is(cause, of10.ErrVersionMismatch) {
		errType = of10.ErrorTypeHelloFailed
		code = of10.HelloFailedIncompatibleVersions
	}

	buf, err := of10.EncodeSC(xid, of10.ErrorMessage{Error: of10.SwitchError{Type: errType, Code: code}})
	if err != nil {
		c.logger.Warn("encode protocol error", slog.String("error", err.Error()))
		return
	}
	if err := c.send(buf); err != nil {
		c.logger.Warn("send protocol error", slog.String("error", err.Error()))
	}
}

// Send encodes msg and writes it to the connection identified by handle.
func (s *Server) Send(handle ConnHandle, xid of10.TransactionID, msg of10.CSMessage) error {
	c, ok := s.reg.get(handle)
	if !ok {
		return ErrUnknownConn
	}

	buf, err := of10.EncodeCS(xid, msg)
	if err != nil {
		return fmt.Errorf("encode message for conn %d: %w", handle, err)
	}
	if err := c.send(buf); err != nil {
		return fmt.Errorf("send to conn %d: %w", handle, err)
	}
	return nil
}

// Connections returns the number of currently live connections.
func (s *Server) Connections() int {
	return s.reg.len()
}
