package fins

import (
	"encoding/binary"
)

// outboundFrame assembles Header(10) || CommandCode(2) || CommandData.
// header must already carry the minted SID.
func outboundFrame(header FinsHeader, code CommandCode, body []byte) []byte {
	hb := header.Bytes()
	frame := make([]byte, 0, 10+2+len(body))
	frame = append(frame, hb[:]...)
	frame = append(frame, byte(code>>8), byte(code))
	frame = append(frame, body...)
	return frame
}

// inboundFrame is a decoded Header(10) || CommandCode(2) || EndCode(2) || Body.
type inboundFrame struct {
	Header  FinsHeader
	Code    CommandCode
	EndCode EndCode
	Body    []byte
}

// parseInboundFrame decodes a full FINS reply frame. It fails with
// ProtocolError if the frame is too short to even carry a header,
// command code and end code.
func parseInboundFrame(b []byte) (inboundFrame, error) {
	if len(b) < 14 {
		return inboundFrame{}, ProtocolError{Reason: "frame shorter than header+command+end code"}
	}
	header := decodeHeader(b[0:10])
	code := CommandCode(binary.BigEndian.Uint16(b[10:12]))
	endCode := decodeEndCode(b[12:14])
	return inboundFrame{Header: header, Code: code, EndCode: endCode, Body: b[14:]}, nil
}

// buildMemoryAddressBytes encodes addr to its 4-byte wire form.
func buildMemoryAddressBytes(addr MemoryAddress, family Family) ([]byte, error) {
	bs, err := addr.Encode(family)
	if err != nil {
		return nil, err
	}
	return bs[:], nil
}

// buildReadBody builds the body for Memory Area Read: address(4) || wordCount(2).
func buildReadBody(addr MemoryAddress, family Family, count uint16) ([]byte, error) {
	ab, err := buildMemoryAddressBytes(addr, family)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 6)
	copy(body[0:4], ab)
	binary.BigEndian.PutUint16(body[4:6], count)
	return body, nil
}

// buildWriteBody builds the body for Memory Area Write: address(4) ||
// count(2) || payload, where payload is count*2 bytes for word
// addresses or count bytes (one per bit) for bit addresses.
func buildWriteBody(addr MemoryAddress, family Family, count uint16, payload []byte) ([]byte, error) {
	ab, err := buildMemoryAddressBytes(addr, family)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 6, 6+len(payload))
	copy(body[0:4], ab)
	binary.BigEndian.PutUint16(body[4:6], count)
	body = append(body, payload...)
	return body, nil
}

// buildFillBody builds the body for Memory Area Fill: address(4) ||
// wordCount(2) || fillValue(2).
func buildFillBody(addr MemoryAddress, family Family, count uint16, fillValue uint16) ([]byte, error) {
	ab, err := buildMemoryAddressBytes(addr, family)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 8)
	copy(body[0:4], ab)
	binary.BigEndian.PutUint16(body[4:6], count)
	binary.BigEndian.PutUint16(body[6:8], fillValue)
	return body, nil
}

// buildTransferBody builds the body for Memory Area Transfer:
// srcAddress(4) || dstAddress(4) || wordCount(2).
func buildTransferBody(src, dst MemoryAddress, family Family, count uint16) ([]byte, error) {
	sb, err := buildMemoryAddressBytes(src, family)
	if err != nil {
		return nil, err
	}
	db, err := buildMemoryAddressBytes(dst, family)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 10)
	copy(body[0:4], sb)
	copy(body[4:8], db)
	binary.BigEndian.PutUint16(body[8:10], count)
	return body, nil
}

// buildMultiReadBody concatenates 4-byte addresses with no count prefix.
func buildMultiReadBody(addrs []MemoryAddress, family Family) ([]byte, error) {
	body := make([]byte, 0, 4*len(addrs))
	for _, a := range addrs {
		ab, err := buildMemoryAddressBytes(a, family)
		if err != nil {
			return nil, err
		}
		body = append(body, ab...)
	}
	return body, nil
}

// buildRunBody builds an optional program#(2) || mode(1) body for Run.
func buildRunBody(program uint16, mode *byte) []byte {
	if mode == nil {
		return nil
	}
	body := make([]byte, 3)
	binary.BigEndian.PutUint16(body[0:2], program)
	body[2] = *mode
	return body
}
