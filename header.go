package fins

// FinsHeader is the 10-byte FINS frame header shared by every command
// and response. Field names follow the OMRON FINS reference: ICF, RSV,
// GCT, DNA/DA1/DA2 (destination network/node/unit), SNA/SA1/SA2
// (source network/node/unit), SID (service id).
type FinsHeader struct {
	ICF byte
	RSV byte
	GCT byte
	DNA byte
	DA1 byte
	DA2 byte
	SNA byte
	SA1 byte
	SA2 byte
	SID byte
}

// RoutingOverride carries a per-request override of the destination
// routing fields, leaving the header template's defaults untouched.
type RoutingOverride struct {
	DNA *byte
	DA1 *byte
	DA2 *byte
}

// defaultHeaderTemplate returns the header defaults:
// ICF=0x80, GCT=0x02, every other field zero.
func defaultHeaderTemplate() FinsHeader {
	return FinsHeader{ICF: 0x80, GCT: 0x02}
}

// withRouting returns a copy of h with any override fields from r applied.
func (h FinsHeader) withRouting(r *RoutingOverride) FinsHeader {
	if r == nil {
		return h
	}
	out := h
	if r.DNA != nil {
		out.DNA = *r.DNA
	}
	if r.DA1 != nil {
		out.DA1 = *r.DA1
	}
	if r.DA2 != nil {
		out.DA2 = *r.DA2
	}
	return out
}

// withSID returns a copy of h carrying the given service id. Per the
// design notes (§9), the header is treated as an immutable template and
// each submission produces a fresh value rather than mutating a shared
// field.
func (h FinsHeader) withSID(sid byte) FinsHeader {
	out := h
	out.SID = sid
	return out
}

// withNodes patches SA1/DA1 after a TCP handshake assigns node numbers.
func (h FinsHeader) withNodes(clientNode, serverNode byte) FinsHeader {
	out := h
	out.SA1 = clientNode
	out.DA1 = serverNode
	return out
}

// Bytes encodes the header to its 10-byte wire form.
func (h FinsHeader) Bytes() [10]byte {
	return [10]byte{h.ICF, h.RSV, h.GCT, h.DNA, h.DA1, h.DA2, h.SNA, h.SA1, h.SA2, h.SID}
}

// decodeHeader parses the 10-byte wire form of a header.
func decodeHeader(b []byte) FinsHeader {
	return FinsHeader{
		ICF: b[0], RSV: b[1], GCT: b[2],
		DNA: b[3], DA1: b[4], DA2: b[5],
		SNA: b[6], SA1: b[7], SA2: b[8],
		SID: b[9],
	}
}
