package ofconn_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/flowforge/goflow10/internal/of10"
	"github.com/flowforge/goflow10/internal/ofconn"
)

func TestFramerRecvSingleMessage(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	msg, err := of10.EncodeSC(1, of10.HelloMessage{})
	if err != nil {
		t.Fatalf("EncodeSC() error = %v", err)
	}

	go func() {
		_, _ = client.Write(msg)
	}()

	f := ofconn.NewFramer(server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := f.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv() error = %v", err)
	}
	if len(got) != len(msg) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(msg))
	}
	for i := range msg {
		if got[i] != msg[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], msg[i])
		}
	}
}

func TestFramerRecvCancelledContext(t *testing.T) {
	t.Parallel()

	_, server := net.Pipe()
	defer server.Close()

	f := ofconn.NewFramer(server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Recv(ctx); err == nil {
		t.Fatal("Recv() error = nil, want cancellation error")
	}
}

func TestFramerSendWritesContiguously(t *testing.T) {
	t.Parallel()

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	msg, err := of10.EncodeSC(7, of10.HelloMessage{})
	if err != nil {
		t.Fatalf("EncodeSC() error = %v", err)
	}

	f := ofconn.NewFramer(client)
	done := make(chan error, 1)
	go func() { done <- f.Send(msg) }()

	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}
