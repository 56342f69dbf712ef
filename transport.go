package fins

import (
	"context"
	"net"
)

// transport abstracts UDP datagram and TCP stream I/O behind one
// surface for the Protocol Engine. send returns the write result to its
// caller; inbound frames and connection closure are reported through the
// callbacks registered with setHandlers. Neither implementation blocks
// the caller beyond the write syscall itself.
type transport interface {
	// open performs any connection/handshake steps needed before the
	// transport can send or receive.
	open(ctx context.Context) error
	// send writes one FINS frame (UDP: the bare frame; TCP: the caller
	// supplies the bare frame too — the transport wraps it in an envelope).
	send(ctx context.Context, frame []byte) error
	// setHandlers registers the callbacks invoked from the transport's
	// internal read loop.
	setHandlers(onFrame func([]byte), onClose func(error))
	// nodeAssignment returns the node numbers assigned during a TCP
	// handshake, or the zero value for UDP.
	nodeAssignment() nodeAssignment
	close() error
	localAddr() net.Addr
	remoteAddr() net.Addr
}

// transportKind selects the wire transport at construction.
type transportKind string

const (
	transportUDP transportKind = "udp"
	transportTCP transportKind = "tcp"
)
