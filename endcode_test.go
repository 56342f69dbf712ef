package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEndCodeWorkedScenario(t *testing.T) {
	ec := decodeEndCode([]byte{0xC0, 0x40})
	assert.Equal(t, "0040", ec.Code())
	assert.True(t, ec.NetworkRelayError)
	assert.False(t, ec.FatalCPUUnitError)
	assert.True(t, ec.NonFatalCPUUnitError)
}

func TestEndCodeRoundTrip(t *testing.T) {
	for _, b := range [][2]byte{{0x00, 0x00}, {0xC0, 0x40}, {0x80, 0x80}, {0x3F, 0x7F}} {
		ec := decodeEndCode(b[:])
		back := encodeEndCode(ec)
		assert.Equal(t, b[:], back)
	}
}

func TestEndCodeIsNormal(t *testing.T) {
	assert.True(t, decodeEndCode([]byte{0x00, 0x00}).IsNormal())
	assert.False(t, decodeEndCode([]byte{0x11, 0x03}).IsNormal())
}

func TestEndCodeDescriptionFallback(t *testing.T) {
	ec := decodeEndCode([]byte{0xFF, 0xFF})
	assert.Equal(t, "undefined end code", ec.Description())
}

func TestEndCodeAsError(t *testing.T) {
	normal := decodeEndCode([]byte{0x00, 0x00})
	assert.NoError(t, normal.AsError())

	bad := decodeEndCode([]byte{0x11, 0x03})
	err := bad.AsError()
	require.Error(t, err)
	var ece EndCodeError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, "1103", ece.Code)
}
