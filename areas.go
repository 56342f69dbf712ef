package fins

import "fmt"

// Family selects the PLC memory-area table used by the Address Codec.
// CS, CSCJ, CJ, NJ, NJNX and NX share one table; CV carries its own.
type Family string

const (
	FamilyCS   Family = "CS"
	FamilyCSCJ Family = "CSCJ"
	FamilyCJ   Family = "CJ"
	FamilyCV   Family = "CV"
	FamilyNJ   Family = "NJ"
	FamilyNJNX Family = "NJNX"
	FamilyNX   Family = "NX"
)

// isCV reports whether the family uses the CV-series table and arithmetic.
func (f Family) isCV() bool { return f == FamilyCV }

// areaEntry is one row of a memory-area table: the wire area code. The
// A/C addends are applied separately, by computeOffset.
type areaEntry struct {
	code byte
}

// areaTable maps area mnemonics to their wire-level entry for one
// family and one addressing mode (word or bit).
type areaTable map[string]areaEntry

// csWordAreas and csBitAreas are shared by CS, CSCJ, CJ, NJ, NJNX, NX.
// Codes follow the published OMRON FINS area-code table.
var csWordAreas = buildExtendedAreas(areaTable{
	"D":   {0x82},
	"CIO": {0xB0},
	"W":   {0xB1},
	"H":   {0xB2},
	"A":   {0xB3},
	"T":   {0x89},
	"C":   {0x89},
	"IR":  {0xDC},
	"DR":  {0xBC},
}, false)

var csBitAreas = buildExtendedAreas(areaTable{
	"D":   {0x02},
	"CIO": {0x30},
	"W":   {0x31},
	"H":   {0x32},
	"A":   {0x33},
	"T":   {0x09},
	"C":   {0x09},
	"IR":  {0xDC},
	"DR":  {0xBC},
}, true)

// cvWordAreas and cvBitAreas are the CV-series table. CV shares the
// same area codes for D/CIO/W/H but uses its own addend for A and C
// (see computeOffset).
var cvWordAreas = buildExtendedAreas(areaTable{
	"D":   {0x82},
	"CIO": {0xB0},
	"W":   {0xB1},
	"H":   {0xB2},
	"A":   {0xB3},
	"T":   {0x89},
	"C":   {0x89},
	"IR":  {0xDC},
	"DR":  {0xBC},
}, false)

var cvBitAreas = buildExtendedAreas(areaTable{
	"D":   {0x02},
	"CIO": {0x30},
	"W":   {0x31},
	"H":   {0x32},
	"A":   {0x33},
	"T":   {0x09},
	"C":   {0x09},
	"IR":  {0xDC},
	"DR":  {0xBC},
}, true)

// buildExtendedAreas adds the E0..E18 extended-memory bank entries to a
// base table. Banks 0..12 (0x0..0xC) use word codes 0xA0+n / bit codes
// 0x20+n; banks 13..18 (0xD..0x12) continue at word codes 0x60+(n-13) /
// bit codes 0xE0+(n-13), avoiding collision with the banks-0..12 range.
func buildExtendedAreas(base areaTable, bit bool) areaTable {
	t := make(areaTable, len(base)+19)
	for k, v := range base {
		t[k] = v
	}
	for n := 0; n <= 18; n++ {
		name := fmt.Sprintf("E%d", n)
		var code byte
		if n <= 12 {
			if bit {
				code = byte(0x20 + n)
			} else {
				code = byte(0xA0 + n)
			}
		} else {
			if bit {
				code = byte(0xE0 + (n - 13))
			} else {
				code = byte(0x60 + (n - 13))
			}
		}
		t[name] = areaEntry{code}
	}
	return t
}

// wordTable and bitTable return the area table for a family and
// addressing mode.
func wordTable(f Family) areaTable {
	if f.isCV() {
		return cvWordAreas
	}
	return csWordAreas
}

func bitTable(f Family) areaTable {
	if f.isCV() {
		return cvBitAreas
	}
	return csBitAreas
}

// computeOffset applies the area-specific arithmetic to
// a raw symbolic offset, producing the 16-bit memory offset encoded
// into the wire address. isBit selects the bit-mode multiply-by-16
// step; family selects the A/C addends.
func computeOffset(family Family, area string, rawOffset uint16, isBit bool) uint16 {
	var off uint32
	if isBit {
		off = uint32(rawOffset) * 16
	} else {
		off = uint32(rawOffset)
	}

	switch area {
	case "A":
		if rawOffset > 447 {
			if isBit && family.isCV() {
				off += 0xB000
			} else {
				off += 0x01C0
			}
		} else if isBit && family.isCV() {
			off += 0x0CC0
		}
	case "C":
		if family.isCV() {
			off += 0x0800
		} else {
			off += 0x8000
		}
	}
	return uint16(off)
}
