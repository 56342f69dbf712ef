package fins

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startFakePLC listens on an OS-assigned UDP port and answers exactly
// one request with a single-word Normal Completion reply, mirroring the
// teacher's getAvailablePort/getTestAddresses test-setup pattern without
// pulling in a full simulator.
func startFakePLC(t *testing.T, word uint16) (host string, port int) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 64)
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		in := buf[:n]
		header := decodeHeader(in[0:10])
		hb := header.Bytes()

		reply := make([]byte, 0, 16)
		reply = append(reply, hb[:]...)
		reply = append(reply, in[10], in[11]) // echo command code
		reply = append(reply, 0x00, 0x00)     // normal end code
		reply = append(reply, byte(word>>8), byte(word))
		_, _ = conn.WriteToUDP(reply, raddr)
	}()

	addr := conn.LocalAddr().(*net.UDPAddr)
	return "127.0.0.1", addr.Port
}

func TestEngineReadRoundTrip(t *testing.T) {
	host, port := startFakePLC(t, 42)

	engine, err := NewEngine(host, port)
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
		assert.Equal(t, int16(42), seq.Response.Values[0])
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive reply")
	}
}

func TestEngineSidWraparound(t *testing.T) {
	e := &Engine{}
	e.lastSid = 254
	assert.Equal(t, byte(1), e.nextSid())
	assert.Equal(t, byte(2), e.nextSid())
}

// startSilentPLC listens but never replies, so a submitted sequence
// stays in-flight until its own timeout.
func startSilentPLC(t *testing.T) (host string, port int) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	addr := conn.LocalAddr().(*net.UDPAddr)
	return "127.0.0.1", addr.Port
}

func TestEngineQueueFull(t *testing.T) {
	host, port := startSilentPLC(t)

	engine, err := NewEngine(host, port, WithMaxQueue(1), WithTimeout(2000))
	require.NoError(t, err)
	defer engine.Close()

	gotFull := make(chan struct{}, 1)
	go func() {
		for evt := range engine.Events() {
			if evt.Kind == EventFull {
				gotFull <- struct{}{}
				return
			}
		}
	}()

	_, err = engine.Write("D0", 1, []byte{0x00, 0x00}, CallOptions{})
	require.NoError(t, err)
	_, err = engine.Write("D1", 1, []byte{0x00, 0x00}, CallOptions{})
	assert.Error(t, err)
	assert.IsType(t, QueueFullError{}, err)

	select {
	case <-gotFull:
	case <-time.After(time.Second):
		t.Fatal("expected an EventFull broadcast")
	}
}

func TestEngineCloseRejectsFurtherCalls(t *testing.T) {
	host, port := startFakePLC(t, 0)

	engine, err := NewEngine(host, port)
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	_, err = engine.Status(CallOptions{})
	assert.IsType(t, ClientClosedError{}, err)
}
