package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboundFrame(t *testing.T) {
	header := defaultHeaderTemplate().withSID(7)
	frame := outboundFrame(header, CommandMemoryAreaRead, []byte{0xAA, 0xBB})
	require.Len(t, frame, 10+2+2)
	assert.Equal(t, byte(0x80), frame[0]) // ICF
	assert.Equal(t, byte(7), frame[9])    // SID
	assert.Equal(t, byte(0x01), frame[10])
	assert.Equal(t, byte(0x01), frame[11])
	assert.Equal(t, []byte{0xAA, 0xBB}, frame[12:])
}

func TestParseInboundFrame(t *testing.T) {
	hb := defaultHeaderTemplate().withSID(9).Bytes()
	raw := append(append([]byte(nil), hb[:]...), 0x01, 0x01, 0x00, 0x00, 0x01, 0x02)
	in, err := parseInboundFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(9), in.Header.SID)
	assert.Equal(t, CommandMemoryAreaRead, in.Code)
	assert.True(t, in.EndCode.IsNormal())
	assert.Equal(t, []byte{0x01, 0x02}, in.Body)
}

func TestParseInboundFrameTooShort(t *testing.T) {
	_, err := parseInboundFrame([]byte{0x80, 0x00})
	require.Error(t, err)
	assert.IsType(t, ProtocolError{}, err)
}

func TestBuildReadBody(t *testing.T) {
	addr, err := ParseAddress("D100")
	require.NoError(t, err)
	body, err := buildReadBody(addr, FamilyCS, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x00, 0x64, 0x00, 0x00, 0x03}, body)
}

func TestBuildWriteBody(t *testing.T) {
	addr, err := ParseAddress("D100")
	require.NoError(t, err)
	body, err := buildWriteBody(addr, FamilyCS, 1, []byte{0x00, 0x2A})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x00, 0x64, 0x00, 0x00, 0x01, 0x00, 0x2A}, body)
}

func TestBuildFillBody(t *testing.T) {
	addr, err := ParseAddress("D0")
	require.NoError(t, err)
	body, err := buildFillBody(addr, FamilyCS, 10, 0xFFFF)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x00, 0x00, 0x00, 0x00, 0x0A, 0xFF, 0xFF}, body)
}

func TestBuildTransferBody(t *testing.T) {
	src, err := ParseAddress("D0")
	require.NoError(t, err)
	dst, err := ParseAddress("D100")
	require.NoError(t, err)
	body, err := buildTransferBody(src, dst, FamilyCS, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x00, 0x00, 0x00, 0x82, 0x00, 0x64, 0x00, 0x00, 0x05}, body)
}

func TestBuildMultiReadBody(t *testing.T) {
	addrs := []MemoryAddress{}
	for _, s := range []string{"D0", "CIO50.3"} {
		a, err := ParseAddress(s)
		require.NoError(t, err)
		addrs = append(addrs, a)
	}
	body, err := buildMultiReadBody(addrs, FamilyCS)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x00, 0x00, 0x00, 0x30, 0x03, 0x20, 0x03}, body)
}

func TestBuildRunBody(t *testing.T) {
	assert.Nil(t, buildRunBody(1, nil))
	mode := byte(2)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, buildRunBody(1, &mode))
}
