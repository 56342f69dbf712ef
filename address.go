package fins

import (
	"regexp"
	"strconv"
	"strings"
)

// regexA matches addresses with no underscore: AREA + offset [+ "." + bit].
var regexA = regexp.MustCompile(`^([A-Z]+)([0-9]+)(?:\.([0-9]+))?$`)

// regexB matches underscore-qualified extended-memory addresses:
// "E1_200", "E10_200.3", etc. The area token is everything up to the
// final underscore, underscore consumed.
var regexB = regexp.MustCompile(`^(.+)_([0-9]+)(?:\.([0-9]+))?$`)

// MemoryAddress is a parsed symbolic PLC address.
type MemoryAddress struct {
	Area   string
	Offset uint16
	Bit    *byte // nil for a word address, 0..15 for a bit address
}

// IsBitAddress reports whether the address targets a single bit rather
// than a full word.
func (a MemoryAddress) IsBitAddress() bool { return a.Bit != nil }

// ParseAddress parses a symbolic address string such as "D100",
// "CIO50.3", or "E1_200". It fails with
// InvalidAddressError if neither grammar matches or the offset is not
// numeric.
func ParseAddress(s string) (MemoryAddress, error) {
	var m []string
	if strings.Contains(s, "_") {
		m = regexB.FindStringSubmatch(s)
	} else {
		m = regexA.FindStringSubmatch(s)
	}
	if m == nil {
		return MemoryAddress{}, InvalidAddressError{Input: s}
	}

	area := m[1]
	offset, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		return MemoryAddress{}, InvalidAddressError{Input: s}
	}

	addr := MemoryAddress{Area: area, Offset: uint16(offset)}
	if m[3] != "" {
		bit, err := strconv.ParseUint(m[3], 10, 8)
		if err != nil || bit > 15 {
			return MemoryAddress{}, InvalidAddressError{Input: s}
		}
		b := byte(bit)
		addr.Bit = &b
	}
	return addr, nil
}

// Encode resolves addr against the given family's word or bit table and
// produces the 4-byte wire encoding [areaCode, offsetHi, offsetLo,
// bitOrZero].
func (addr MemoryAddress) Encode(family Family) ([4]byte, error) {
	var table areaTable
	if addr.IsBitAddress() {
		table = bitTable(family)
	} else {
		table = wordTable(family)
	}

	entry, ok := table[addr.Area]
	if !ok {
		return [4]byte{}, UnknownAreaError{Area: addr.Area, Family: family}
	}

	memOffset := computeOffset(family, addr.Area, addr.Offset, addr.IsBitAddress())

	var bit byte
	if addr.Bit != nil {
		bit = *addr.Bit
	}
	return [4]byte{entry.code, byte(memOffset >> 8), byte(memOffset), bit}, nil
}

// Render renders addr back to its canonical string form, adding
// offsetWd to the word offset and offsetBit to the bit index (both
// normally zero; non-zero values let callers render relative to a
// multi-word read's base address).
func (addr MemoryAddress) Render(offsetWd uint16, offsetBit byte) string {
	var b strings.Builder
	b.WriteString(addr.Area)
	if n := len(addr.Area); n > 0 && addr.Area[n-1] >= '0' && addr.Area[n-1] <= '9' {
		b.WriteByte('_') // extended banks ("E1") use the underscore grammar
	}
	b.WriteString(strconv.FormatUint(uint64(addr.Offset+offsetWd), 10))
	if addr.Bit != nil {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(*addr.Bit+offsetBit), 10))
	}
	return b.String()
}

// String implements fmt.Stringer by rendering the canonical form.
func (addr MemoryAddress) String() string { return addr.Render(0, 0) }
