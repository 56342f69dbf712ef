package fins

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// tcpTransport implements FINS over TCP: the 16-byte envelope, the
// connect-time node-assignment handshake, and tolerant framing of a
// stream that may deliver several envelopes per read or split one
// envelope across reads.
type tcpTransport struct {
	conn    *net.TCPConn
	log     *zap.Logger
	nodes   nodeAssignment
	onFrame func([]byte)
	onClose func(error)
	closeCh chan struct{}
}

func newTCPTransport(ctx context.Context, local, remote *net.TCPAddr, log *zap.Logger) (*tcpTransport, error) {
	dialer := net.Dialer{LocalAddr: local, Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", remote.String())
	if err != nil {
		return nil, err
	}
	tc := conn.(*net.TCPConn)
	_ = tc.SetKeepAlive(true)
	_ = tc.SetNoDelay(true)
	return &tcpTransport{conn: tc, log: log, closeCh: make(chan struct{})}, nil
}

func (t *tcpTransport) open(ctx context.Context) error {
	if err := t.handshake(ctx); err != nil {
		_ = t.conn.Close()
		return err
	}
	go t.readLoop()
	return nil
}

// handshake performs the client-first 20-byte FINS/TCP handshake and
// records the node numbers the server assigns.
func (t *tcpTransport) handshake(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetDeadline(deadline)
	}
	if _, err := t.conn.Write(clientHandshakeFrame(0)); err != nil {
		return TransportError{Err: err}
	}

	buf := make([]byte, 24)
	n, err := readAtLeast(t.conn, buf, 24)
	if err != nil {
		return TransportError{Err: err}
	}

	var splitter tcpFrameSplitter
	envelopes, err := splitter.feed(buf[:n])
	if err != nil {
		return err
	}
	if len(envelopes) == 0 {
		return ProtocolError{Reason: "truncated handshake reply"}
	}
	if envelopes[0].Command != tcpCommandHandshakeResponse {
		return ProtocolError{Reason: fmt.Sprintf("unexpected handshake command %d", envelopes[0].Command)}
	}

	nodes, err := parseHandshakeReply(envelopes[0])
	if err != nil {
		return err
	}
	t.nodes = nodes

	_ = t.conn.SetDeadline(time.Time{})
	return nil
}

func readAtLeast(conn net.Conn, buf []byte, min int) (int, error) {
	total := 0
	for total < min {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (t *tcpTransport) setHandlers(onFrame func([]byte), onClose func(error)) {
	t.onFrame, t.onClose = onFrame, onClose
}

func (t *tcpTransport) send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.conn.Write(encodeTCPEnvelope(tcpCommandData, 0, frame))
	return err
}

func (t *tcpTransport) readLoop() {
	var splitter tcpFrameSplitter
	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		if err != nil {
			select {
			case <-t.closeCh:
				return
			default:
			}
			if t.onClose != nil {
				t.onClose(err)
			}
			return
		}
		if n == 0 {
			continue
		}
		envelopes, perr := splitter.feed(buf[:n])
		if perr != nil {
			if t.onClose != nil {
				t.onClose(perr)
			}
			return
		}
		for _, env := range envelopes {
			if env.Command != tcpCommandData {
				continue
			}
			if t.onFrame != nil {
				t.onFrame(env.Body)
			}
		}
	}
}

func (t *tcpTransport) nodeAssignment() nodeAssignment { return t.nodes }

func (t *tcpTransport) close() error {
	close(t.closeCh)
	return t.conn.Close()
}

func (t *tcpTransport) localAddr() net.Addr  { return t.conn.LocalAddr() }
func (t *tcpTransport) remoteAddr() net.Addr { return t.conn.RemoteAddr() }
