package fins

import "encoding/binary"

// parseResponseBody dispatches to the command-specific body parser,
// using the originating Request to know how to interpret the reply
// (word vs bit values, which addresses were requested, and so on).
func parseResponseBody(req Request, in inboundFrame, remoteHost string) (*Response, error) {
	resp := &Response{
		RemoteHost: remoteHost,
		Sid:        in.Header.SID,
		Command:    in.Code,
		EndCode:    in.EndCode,
		MRES:       in.EndCode.MRES,
		SRES:       in.EndCode.SRES,
		Buffer:     in.Body,
	}

	// A non-normal end code is not a transport failure: the
	// transaction completed, but carries no command-specific payload
	// worth parsing further.
	if !in.EndCode.IsNormal() {
		return resp, nil
	}

	switch req.Command {
	case CommandMemoryAreaRead:
		values, err := decodeReadValues(req, in.Body)
		if err != nil {
			return nil, err
		}
		resp.Values = values
	case CommandMultipleMemoryRead:
		values, err := decodeMultiReadValues(req, in.Body)
		if err != nil {
			return nil, err
		}
		resp.Values = values
	case CommandControllerStatus:
		status, err := parseControllerStatus(in.Body)
		if err != nil {
			return nil, err
		}
		resp.Status = status
	case CommandCPUUnitDataRead:
		data, err := parseCPUUnitData(in.Body)
		if err != nil {
			return nil, err
		}
		resp.CPUUnitData = data
	case CommandClockRead:
		clock, err := decodeClockReply(in.Body)
		if err != nil {
			return nil, err
		}
		resp.Clock = clock
	case CommandMemoryAreaWrite, CommandMemoryAreaFill, CommandMemoryAreaTransfer,
		CommandRun, CommandStop:
		// No payload beyond the end code.
	}
	return resp, nil
}

// decodeReadValues decodes a Memory Area Read body into req.Count
// values, one bool per bit for a bit address or one int16 per word for
// a word address.
func decodeReadValues(req Request, body []byte) ([]interface{}, error) {
	if req.Address == nil {
		return nil, ProtocolError{Reason: "read response with no originating address"}
	}
	count := int(req.Count)
	if req.Address.IsBitAddress() {
		if len(body) < count {
			return nil, ProtocolError{Reason: "read reply shorter than requested bit count"}
		}
		values := make([]interface{}, count)
		for i := 0; i < count; i++ {
			values[i] = body[i]&0x01 != 0
		}
		return values, nil
	}

	if len(body) < count*2 {
		return nil, ProtocolError{Reason: "read reply shorter than requested word count"}
	}
	values := make([]interface{}, count)
	for i := 0; i < count; i++ {
		values[i] = int16(binary.BigEndian.Uint16(body[i*2 : i*2+2]))
	}
	return values, nil
}

// decodeMultiReadValues walks the reply's area-code-tagged entries in
// lockstep with the originating address list, validating the echoed
// area code against each address's own encoding.
func decodeMultiReadValues(req Request, body []byte) ([]interface{}, error) {
	values := make([]interface{}, 0, len(req.Addresses))
	off := 0
	for _, addr := range req.Addresses {
		wire, err := addr.Encode(req.Family)
		if err != nil {
			return nil, err
		}
		entryLen := 2
		if addr.IsBitAddress() {
			entryLen = 1
		}
		if off+1+entryLen > len(body) {
			return nil, ProtocolError{Reason: "multi-read reply shorter than requested address list"}
		}
		if body[off] != wire[0] {
			return nil, ProtocolError{Reason: "multi-read reply area code mismatch"}
		}
		off++

		if addr.IsBitAddress() {
			values = append(values, body[off]&0x01 != 0)
		} else {
			values = append(values, int16(binary.BigEndian.Uint16(body[off:off+2])))
		}
		off += entryLen
	}
	return values, nil
}
