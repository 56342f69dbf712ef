package fins

import (
	"bytes"
	"encoding/binary"
)

// ControllerStatus is the parsed Controller Status Read reply.
type ControllerStatus struct {
	Running            bool
	Mode               string
	FatalErrorFlags    uint16
	NonFatalErrorFlags uint16
	Message            string
}

var controllerModeNames = map[byte]string{
	0: "PROGRAM",
	2: "MONITOR",
	3: "RUN",
}

// parseControllerStatus decodes a Controller Status Read body:
// status(1) || mode(1) || fatalErrorFlags(2) || nonFatalErrorFlags(2) || message...
func parseControllerStatus(body []byte) (*ControllerStatus, error) {
	if len(body) < 6 {
		return nil, ProtocolError{Reason: "controller status body too short"}
	}
	mode, ok := controllerModeNames[body[1]]
	if !ok {
		mode = "UNKNOWN"
	}
	st := &ControllerStatus{
		Running:            body[0]&0x01 != 0,
		Mode:               mode,
		FatalErrorFlags:    binary.BigEndian.Uint16(body[2:4]),
		NonFatalErrorFlags: binary.BigEndian.Uint16(body[4:6]),
	}
	if len(body) > 6 {
		msg := body[6:]
		if n := bytes.IndexByte(msg, 0); n != -1 {
			msg = msg[:n]
		}
		st.Message = string(msg)
	}
	return st, nil
}

// CPUUnitData is the parsed CPU Unit Data Read reply.
type CPUUnitData struct {
	Model           string
	InternalVersion string
	DIPSwitch       byte
	AreaData        []byte
	CPUBusUnits     [16]bool
	Counts          []uint16
}

const (
	cpuModelLen   = 20
	cpuVersionLen = 20
	cpuAreaLen    = 8
	cpuSlotsLen   = 16
)

// parseCPUUnitData decodes a CPU Unit Data Read body: model(20) ||
// internalVersion(20) || dipSwitch(1) || areaData(8) ||
// cpuBusUnitConfig(16, present-bit 0x80 per slot) || trailing count pairs.
func parseCPUUnitData(body []byte) (*CPUUnitData, error) {
	fixedLen := cpuModelLen + cpuVersionLen + 1 + cpuAreaLen + cpuSlotsLen
	if len(body) < fixedLen {
		return nil, ProtocolError{Reason: "CPU unit data body too short"}
	}

	data := &CPUUnitData{
		Model:           trimNulPadded(body[0:cpuModelLen]),
		InternalVersion: trimNulPadded(body[cpuModelLen : cpuModelLen+cpuVersionLen]),
	}
	off := cpuModelLen + cpuVersionLen
	data.DIPSwitch = body[off]
	off++
	data.AreaData = append([]byte(nil), body[off:off+cpuAreaLen]...)
	off += cpuAreaLen

	for i := 0; i < cpuSlotsLen; i++ {
		data.CPUBusUnits[i] = body[off+i]&0x80 != 0
	}
	off += cpuSlotsLen

	for off+2 <= len(body) {
		data.Counts = append(data.Counts, binary.BigEndian.Uint16(body[off:off+2]))
		off += 2
	}
	return data, nil
}

func trimNulPadded(b []byte) string {
	if n := bytes.IndexByte(b, 0); n != -1 {
		b = b[:n]
	}
	return string(bytes.TrimRight(b, " "))
}
