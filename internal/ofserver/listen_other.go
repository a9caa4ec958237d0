//go:build !linux

package ofserver

import "net"

// listenConfig returns a plain net.ListenConfig on non-Linux platforms;
// SO_REUSEADDR tuning is Linux-specific.
func listenConfig() net.ListenConfig {
	return net.ListenConfig{}
}
