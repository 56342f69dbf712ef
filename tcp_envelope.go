package fins

import "encoding/binary"

// TCP envelope command values. The handshake is asymmetric: the
// client's request carries command 0, the server's reply carries
// command 1 — they are never the same value in either direction.
const (
	tcpCommandHandshakeRequest  uint32 = 0x00000000
	tcpCommandHandshakeResponse uint32 = 0x00000001
	tcpCommandData              uint32 = 0x00000002
)

const tcpMagic = "FINS"

// encodeTCPEnvelope wraps a FINS frame in its 16-byte TCP envelope:
// magic(4) || length(4) || command(4) || errorCode(4) || body.
// length counts everything after the length field itself, i.e. 8+len(body).
func encodeTCPEnvelope(command uint32, errorCode uint32, body []byte) []byte {
	out := make([]byte, 16+len(body))
	copy(out[0:4], tcpMagic)
	binary.BigEndian.PutUint32(out[4:8], uint32(8+len(body)))
	binary.BigEndian.PutUint32(out[8:12], command)
	binary.BigEndian.PutUint32(out[12:16], errorCode)
	copy(out[16:], body)
	return out
}

// tcpEnvelope is one decoded TCP envelope.
type tcpEnvelope struct {
	Command   uint32
	ErrorCode uint32
	Body      []byte
}

// tcpFrameSplitter accumulates bytes from a TCP stream and peels off
// complete envelopes, tolerating multiple envelopes concatenated in one
// read and a single envelope split across reads.
type tcpFrameSplitter struct {
	buf []byte
}

// feed appends newly read bytes and returns every envelope that is now
// fully buffered, leaving any partial envelope queued for the next feed.
func (s *tcpFrameSplitter) feed(data []byte) ([]tcpEnvelope, error) {
	s.buf = append(s.buf, data...)

	var envelopes []tcpEnvelope
	for {
		if len(s.buf) < 8 {
			break
		}
		if string(s.buf[0:4]) != tcpMagic {
			return envelopes, ProtocolError{Reason: "invalid FINS/TCP signature"}
		}
		length := binary.BigEndian.Uint32(s.buf[4:8])
		if length < 8 {
			return envelopes, ProtocolError{Reason: "invalid FINS/TCP length"}
		}
		total := 8 + int(length)
		if len(s.buf) < total {
			break // partial envelope, wait for more data
		}

		command := binary.BigEndian.Uint32(s.buf[8:12])
		errorCode := binary.BigEndian.Uint32(s.buf[12:16])
		body := append([]byte(nil), s.buf[16:total]...)
		envelopes = append(envelopes, tcpEnvelope{Command: command, ErrorCode: errorCode, Body: body})

		s.buf = s.buf[total:]
	}
	return envelopes, nil
}

// clientHandshakeFrame builds the 20-byte client->server handshake
// frame. clientNode=0 asks the server to assign a node number.
func clientHandshakeFrame(clientNode byte) []byte {
	body := make([]byte, 4)
	binary.BigEndian.PutUint32(body, uint32(clientNode))
	return encodeTCPEnvelope(tcpCommandHandshakeRequest, 0, body)
}

// nodeAssignment is the client/server node pair assigned during the
// handshake.
type nodeAssignment struct {
	ClientNode byte
	ServerNode byte
}

// parseHandshakeReply parses the server's 24-byte handshake reply.
// The envelope decoder has already stripped magic/length/command/error,
// leaving an 8-byte body: clientNode(4) || serverNode(4), with the
// actual node value in the low byte of each 4-byte field.
func parseHandshakeReply(env tcpEnvelope) (nodeAssignment, error) {
	if env.ErrorCode != 0 {
		return nodeAssignment{}, ProtocolError{Reason: "handshake rejected by server"}
	}
	if len(env.Body) < 8 {
		return nodeAssignment{}, ProtocolError{Reason: "truncated handshake reply"}
	}
	return nodeAssignment{
		ClientNode: env.Body[3],
		ServerNode: env.Body[7],
	}, nil
}
