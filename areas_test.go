package fins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOffsetAAreaThreshold(t *testing.T) {
	assert.Equal(t, uint16(447), computeOffset(FamilyCS, "A", 447, false))
	assert.Equal(t, uint16(448+0x01C0), computeOffset(FamilyCS, "A", 448, false))
}

func TestComputeOffsetCArea(t *testing.T) {
	assert.Equal(t, uint16(5+0x8000), computeOffset(FamilyCS, "C", 5, false))
	assert.Equal(t, uint16(5+0x0800), computeOffset(FamilyCV, "C", 5, false))
}

func TestComputeOffsetCVBitArea(t *testing.T) {
	assert.Equal(t, uint16(10*16+0x0CC0), computeOffset(FamilyCV, "A", 10, true))
	assert.Equal(t, uint16(448*16+0xB000), computeOffset(FamilyCV, "A", 448, true))
}

func TestComputeOffsetBitMultiplier(t *testing.T) {
	assert.Equal(t, uint16(50*16), computeOffset(FamilyCS, "CIO", 50, true))
	assert.Equal(t, uint16(50), computeOffset(FamilyCS, "CIO", 50, false))
}

func TestExtendedAreaBankSplit(t *testing.T) {
	assert.Equal(t, areaEntry{0xA0}, csWordAreas["E0"])
	assert.Equal(t, areaEntry{0xAC}, csWordAreas["E12"])
	assert.Equal(t, areaEntry{0x60}, csWordAreas["E13"])
	assert.Equal(t, areaEntry{0x65}, csWordAreas["E18"])
	assert.Equal(t, areaEntry{0x20}, csBitAreas["E0"])
	assert.Equal(t, areaEntry{0xE0}, csBitAreas["E13"])
}

func TestFamilyIsCV(t *testing.T) {
	assert.True(t, FamilyCV.isCV())
	assert.False(t, FamilyCS.isCV())
	assert.False(t, FamilyNJ.isCV())
}
