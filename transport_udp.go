package fins

import (
	"context"
	"net"

	"go.uber.org/zap"
)

const udpReadBufferSize = 2048

// udpTransport carries one FINS frame per datagram.
type udpTransport struct {
	conn    *net.UDPConn
	log     *zap.Logger
	onFrame func([]byte)
	onClose func(error)
	closeCh chan struct{}
}

func newUDPTransport(local, remote *net.UDPAddr, log *zap.Logger) (*udpTransport, error) {
	conn, err := net.DialUDP("udp", local, remote)
	if err != nil {
		return nil, err
	}
	return &udpTransport{conn: conn, log: log, closeCh: make(chan struct{})}, nil
}

func (t *udpTransport) open(ctx context.Context) error {
	go t.readLoop()
	return nil
}

func (t *udpTransport) setHandlers(onFrame func([]byte), onClose func(error)) {
	t.onFrame, t.onClose = onFrame, onClose
}

func (t *udpTransport) send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.conn.Write(frame)
	return err
}

func (t *udpTransport) readLoop() {
	buf := make([]byte, udpReadBufferSize)
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
		if n > 0 && t.onFrame != nil {
			frame := append([]byte(nil), buf[:n]...)
			t.onFrame(frame)
		}
	}
}

func (t *udpTransport) nodeAssignment() nodeAssignment { return nodeAssignment{} }

func (t *udpTransport) close() error {
	close(t.closeCh)
	return t.conn.Close()
}

func (t *udpTransport) localAddr() net.Addr  { return t.conn.LocalAddr() }
func (t *udpTransport) remoteAddr() net.Addr { return t.conn.RemoteAddr() }
