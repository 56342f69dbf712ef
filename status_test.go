package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseControllerStatus(t *testing.T) {
	body := []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x00}
	body = append(body, []byte("ok")...)
	st, err := parseControllerStatus(body)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "RUN", st.Mode)
	assert.Equal(t, "ok", st.Message)
}

func TestParseControllerStatusUnknownMode(t *testing.T) {
	body := []byte{0x00, 0xFF, 0x00, 0x01, 0x00, 0x02}
	st, err := parseControllerStatus(body)
	require.NoError(t, err)
	assert.False(t, st.Running)
	assert.Equal(t, "UNKNOWN", st.Mode)
	assert.Equal(t, uint16(1), st.FatalErrorFlags)
	assert.Equal(t, uint16(2), st.NonFatalErrorFlags)
}

func TestParseControllerStatusTooShort(t *testing.T) {
	_, err := parseControllerStatus([]byte{0x01})
	assert.IsType(t, ProtocolError{}, err)
}

func TestParseCPUUnitData(t *testing.T) {
	body := make([]byte, 0, 65)
	body = append(body, []byte("CP1E-N40              ")[:20]...)
	body = append(body, []byte("V2.0                ")[:20]...)
	body = append(body, 0x0F)
	body = append(body, make([]byte, cpuAreaLen)...)
	slots := make([]byte, cpuSlotsLen)
	slots[0] = 0x80
	slots[3] = 0x81
	body = append(body, slots...)
	body = append(body, 0x00, 0x10, 0x00, 0x20)

	data, err := parseCPUUnitData(body)
	require.NoError(t, err)
	assert.Equal(t, "CP1E-N40", data.Model)
	assert.Equal(t, byte(0x0F), data.DIPSwitch)
	assert.True(t, data.CPUBusUnits[0])
	assert.True(t, data.CPUBusUnits[3])
	assert.False(t, data.CPUBusUnits[1])
	require.Len(t, data.Counts, 2)
	assert.Equal(t, uint16(0x10), data.Counts[0])
	assert.Equal(t, uint16(0x20), data.Counts[1])
}

func TestParseCPUUnitDataTooShort(t *testing.T) {
	_, err := parseCPUUnitData(make([]byte, 10))
	assert.IsType(t, ProtocolError{}, err)
}
