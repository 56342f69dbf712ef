package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		input string
		want  MemoryAddress
	}{
		{"D100", MemoryAddress{Area: "D", Offset: 100}},
		{"CIO50.3", MemoryAddress{Area: "CIO", Offset: 50, Bit: bytePtr(3)}},
		{"E1_200", MemoryAddress{Area: "E1", Offset: 200}},
		{"E10_200.3", MemoryAddress{Area: "E10", Offset: 200, Bit: bytePtr(3)}},
	}
	for _, c := range cases {
		got, err := ParseAddress(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want.Area, got.Area, c.input)
		assert.Equal(t, c.want.Offset, got.Offset, c.input)
		if c.want.Bit == nil {
			assert.Nil(t, got.Bit, c.input)
		} else {
			require.NotNil(t, got.Bit, c.input)
			assert.Equal(t, *c.want.Bit, *got.Bit, c.input)
		}
	}
}

func TestParseAddressInvalid(t *testing.T) {
	for _, s := range []string{"", "100D", "D", "CIO50.16", "D100.", "_200"} {
		_, err := ParseAddress(s)
		assert.Error(t, err, s)
		assert.IsType(t, InvalidAddressError{}, err, s)
	}
}

func TestAddressEncodeWorkedScenarios(t *testing.T) {
	cases := []struct {
		input string
		want  [4]byte
	}{
		{"D100", [4]byte{0x82, 0x00, 0x64, 0x00}},
		{"CIO50.3", [4]byte{0x30, 0x03, 0x20, 0x03}},
		{"E1_200", [4]byte{0xA1, 0x00, 0xC8, 0x00}},
		{"C5", [4]byte{0x89, 0x80, 0x05, 0x00}},
	}
	for _, c := range cases {
		addr, err := ParseAddress(c.input)
		require.NoError(t, err, c.input)
		wire, err := addr.Encode(FamilyCS)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, wire, c.input)
	}
}

func TestAddressEncodeUnknownArea(t *testing.T) {
	addr, err := ParseAddress("ZZ100")
	require.NoError(t, err)
	_, err = addr.Encode(FamilyCS)
	assert.IsType(t, UnknownAreaError{}, err)
}

func TestAddressRoundTripString(t *testing.T) {
	for _, s := range []string{"D100", "CIO50.3", "H10"} {
		addr, err := ParseAddress(s)
		require.NoError(t, err)
		assert.Equal(t, s, addr.String())
	}
}

func bytePtr(b byte) *byte { return &b }
