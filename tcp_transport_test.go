package fins

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startFakeTCPPLC listens on an OS-assigned TCP port, performs the
// FINS/TCP node-assignment handshake, then answers exactly one data
// request with a single-word Normal Completion reply. When splitReply
// is true the reply envelope is written across two separate writes
// with a short gap between them, exercising the frame splitter's
// split-across-reads path end to end.
func startFakeTCPPLC(t *testing.T, word uint16, splitReply bool) (host string, port int) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake request: 16-byte envelope header + 4-byte body.
		hs := make([]byte, 20)
		if _, err := io.ReadFull(conn, hs); err != nil {
			return
		}
		if binary.BigEndian.Uint32(hs[8:12]) != tcpCommandHandshakeRequest {
			return
		}
		reply := encodeTCPEnvelope(tcpCommandHandshakeResponse, 0, []byte{0, 0, 0, 1, 0, 0, 0, 2})
		if _, err := conn.Write(reply); err != nil {
			return
		}

		// One data envelope: 16-byte header, then a body of length-8 bytes.
		envHdr := make([]byte, 16)
		if _, err := io.ReadFull(conn, envHdr); err != nil {
			return
		}
		bodyLen := int(binary.BigEndian.Uint32(envHdr[4:8])) - 8
		body := make([]byte, bodyLen)
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}

		header := decodeHeader(body[0:10])
		hb := header.Bytes()
		finsReply := make([]byte, 0, 16)
		finsReply = append(finsReply, hb[:]...)
		finsReply = append(finsReply, body[10], body[11])
		finsReply = append(finsReply, 0x00, 0x00)
		finsReply = append(finsReply, byte(word>>8), byte(word))

		env := encodeTCPEnvelope(tcpCommandData, 0, finsReply)
		if splitReply {
			mid := len(env) / 2
			_, _ = conn.Write(env[:mid])
			time.Sleep(20 * time.Millisecond)
			_, _ = conn.Write(env[mid:])
		} else {
			_, _ = conn.Write(env)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func TestTCPEngineHandshakeAndReadRoundTrip(t *testing.T) {
	host, port := startFakeTCPPLC(t, 77, false)

	engine, err := NewEngine(host, port, WithProtocol("tcp"))
	require.NoError(t, err)
	defer engine.Close()

	done := make(chan *Sequence, 1)
	_, err = engine.Read("D100", 1, CallOptions{Callback: func(err error, seq *Sequence) {
		require.NoError(t, err)
		done <- seq
	}})
	require.NoError(t, err)

	select {
	case seq := <-done:
		require.NotNil(t, seq.Response)
		require.Len(t, seq.Response.Values, 1)
		assert.Equal(t, int16(77), seq.Response.Values[0])
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive reply")
	}
}

func TestTCPEngineReadReplySplitAcrossReads(t *testing.T) {
	host, port := startFakeTCPPLC(t, 99, true)

	engine, err := NewEngine(host, port, WithProtocol("tcp"))
	require.NoError(t, err)
	defer engine.Close()

	done := make(chan *Sequence, 1)
	_, err = engine.Read("D100", 1, CallOptions{Callback: func(err error, seq *Sequence) {
		require.NoError(t, err)
		done <- seq
	}})
	require.NoError(t, err)

	select {
	case seq := <-done:
		require.NotNil(t, seq.Response)
		require.Len(t, seq.Response.Values, 1)
		assert.Equal(t, int16(99), seq.Response.Values[0])
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive reply assembled from a split TCP read")
	}
}
