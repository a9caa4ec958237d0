package packet

import "errors"

// Sentinel errors for packet decode failures.
var (
	// ErrTruncated indicates the buffer ended mid-field.
	ErrTruncated = errors.New("truncated packet")

	// ErrNotEthernetII indicates an ethertype/length field below 0x0600,
	// meaning the frame is a length-encoded Ethernet I frame rather than
	// Ethernet II.
	ErrNotEthernetII = errors.New("not an Ethernet II frame")

	// ErrUnknownEtherType indicates an ethertype outside the dispatch
	// table. Recoverable: the caller may still use the decoded
	// header and treat the body as opaque.
	ErrUnknownEtherType = errors.New("unknown ethertype")

	// ErrUnknownIPProtocol is returned by DecodeARPPacket when the
	// hardware/protocol type or length fields are not Ethernet/IPv4. IP
	// packets whose protocol is not TCP, UDP or ICMP decode without error
	// to OtherIPProtocolPayload.
	ErrUnknownIPProtocol = errors.New("unknown IP protocol")

	// ErrInvalidARPOpcode indicates an ARP opcode other than request (1)
	// or reply (2).
	ErrInvalidARPOpcode = errors.New("invalid ARP opcode")
)
