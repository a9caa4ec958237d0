//go:build linux

package ofserver

import (
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenConfig returns a net.ListenConfig that sets SO_REUSEADDR on the
// OpenFlow listening socket, so a restarted server can rebind a port
// still draining TIME_WAIT connections from switches.
func listenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return fmt.Errorf("control listening socket: %w", err)
			}
			if sockErr != nil {
				return fmt.Errorf("set SO_REUSEADDR: %w", sockErr)
			}
			return nil
		},
	}
}
