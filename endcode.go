package fins

import "fmt"

// EndCode is a decoded FINS end code: the masked MRES/SRES pair plus
// the network-relay and CPU-unit error flags carried in their high
// bits.
type EndCode struct {
	MRES byte
	SRES byte

	NetworkRelayError    bool
	FatalCPUUnitError    bool
	NonFatalCPUUnitError bool
}

// decodeEndCode decodes the two end-code bytes:
// the high bits of MRES/SRES are error flags, then both bytes are
// masked before forming the end code string.
func decodeEndCode(b []byte) EndCode {
	mres, sres := b[0], b[1]
	ec := EndCode{
		NetworkRelayError:    mres&0x80 != 0,
		FatalCPUUnitError:    sres&0x80 != 0,
		NonFatalCPUUnitError: sres&0x40 != 0,
	}
	ec.MRES = mres & 0x3F
	ec.SRES = sres & 0x7F
	return ec
}

// encodeEndCode is the inverse of decodeEndCode, restoring the flag
// bits into the two wire bytes.
func encodeEndCode(ec EndCode) []byte {
	mres, sres := ec.MRES&0x3F, ec.SRES&0x7F
	if ec.NetworkRelayError {
		mres |= 0x80
	}
	if ec.FatalCPUUnitError {
		sres |= 0x80
	}
	if ec.NonFatalCPUUnitError {
		sres |= 0x40
	}
	return []byte{mres, sres}
}

// Code renders the end code as 4 lowercase hex digits, left-padded to width 4.
func (ec EndCode) Code() string {
	return fmt.Sprintf("%04x", uint16(ec.MRES)<<8|uint16(ec.SRES))
}

// IsNormal reports whether the end code is "0000" (Normal Completion).
func (ec EndCode) IsNormal() bool { return ec.Code() == "0000" }

// Description looks up a human-readable description for the end code,
// falling back to a sentinel string for codes absent from the table.
func (ec EndCode) Description() string {
	if d, ok := endCodeDescriptions[ec.Code()]; ok {
		return d
	}
	return "undefined end code"
}

// AsError converts a non-normal end code into an EndCodeError. A
// non-zero end code is NOT a transport-level failure — the
// transaction completed successfully and the caller decides whether to
// treat it as an error.
func (ec EndCode) AsError() error {
	if ec.IsNormal() {
		return nil
	}
	return EndCodeError{Code: ec.Code(), Description: ec.Description()}
}

// EndCodeError is returned by EndCode.AsError for callers that want to
// treat a non-"0000" end code as a Go error.
type EndCodeError struct {
	Code        string
	Description string
}

func (e EndCodeError) Error() string {
	return fmt.Sprintf("fins: end code %s: %s", e.Code, e.Description)
}

// endCodeDescriptions is a representative subset of the OMRON FINS end
// code reference, keyed by EndCode.Code's lowercase hex; unmapped codes
// fall back to "undefined end code".
var endCodeDescriptions = map[string]string{
	"0000": "Normal Completion.",
	"0001": "Service Canceled.",
	"0101": "Local Node Not in Network.",
	"0102": "Token Timeout.",
	"0103": "Retries Failed.",
	"0104": "Too Many Send Frames.",
	"0105": "Node Address Range Error.",
	"0106": "Node Address Duplication.",
	"0201": "Destination Node Not in Network.",
	"0202": "Unit Missing.",
	"0203": "Third Node Missing.",
	"0204": "Destination Node Busy.",
	"0205": "Response Timeout.",
	"0301": "Communications Controller Error.",
	"0302": "CPU Unit Error.",
	"0303": "Controller Error.",
	"0304": "Unit Number Error.",
	"0401": "Undefined Command.",
	"0402": "Not Supported by Model/Version.",
	"1001": "Command Too Long.",
	"1002": "Command Too Short.",
	"1003": "Elements/Data Count Mismatch.",
	"1004": "Command Format Error.",
	"1005": "Header Error.",
	"1101": "Area Classification Missing.",
	"1102": "Access Size Error.",
	"1103": "Address Range Error.",
	"1104": "Address Range Exceeded.",
	"1106": "Program Missing.",
	"1109": "Relational Error.",
	"110a": "Duplicate Data Access.",
	"110b": "Response Too Long.",
	"110c": "Parameter Error.",
	"2002": "Protected.",
	"2003": "Table Missing.",
	"2004": "Data Missing.",
	"2005": "Program Missing.",
	"2006": "File Missing.",
	"2007": "Data Mismatch.",
	"2101": "Read Not Possible, Protected.",
	"2102": "Read Not Possible, Table Missing.",
	"2103": "Write Not Possible, Read-only Unit.",
	"2105": "Write Not Possible, Cannot Register.",
	"2106": "Write Not Possible, Program Missing.",
	"2107": "Write Not Possible, File Missing.",
	"2108": "Write Not Possible, File Name Error.",
	"2201": "Not Executable in Current Mode, Run Mode.",
	"2203": "Not Executable, PLC is in Program Mode.",
	"2204": "Not Executable, PLC is in Debug Mode.",
	"2205": "Not Executable, PLC is in Monitor Mode.",
	"2206": "Not Executable, PLC is in Run Mode.",
	"2301": "No Such Device, File Device Missing.",
	"2302": "No Such Device, Memory Missing.",
	"2303": "No Such Device, Clock Missing.",
	"2401": "Cannot Start/Stop, Table Missing.",
	"2502": "Unit Error, Memory Error.",
	"2503": "Unit Error, I/O Setting Error.",
	"2504": "Unit Error, Too Many I/O Points.",
	"2505": "Unit Error, CPU Bus Unit Error.",
	"2506": "Unit Error, I/O Duplication.",
	"2507": "Unit Error, I/O Bus Error.",
	"2509": "Unit Error, SYSMAC BUS/2 Error.",
	"250A": "Unit Error, CPU Bus Unit Setting Error.",
	"250D": "Unit Error, PLC Setup Error.",
	"250F": "Unit Error, Basic I/O Unit Error.",
	"2601": "Command Error, No Protection.",
	"2602": "Command Error, Incorrect Password.",
	"2604": "Command Error, Protected.",
	"2605": "Command Error, Service Already Executing.",
	"2606": "Command Error, Service Stopped.",
	"2607": "Command Error, No Execution Right.",
	"2608": "Command Error, Settings Not Complete.",
	"2609": "Command Error, Necessary Items Not Set.",
	"260a": "Command Error, Number Already Defined.",
	"260b": "Command Error, Error Will Not Clear.",
	"3001": "Access Right Error, No Access Right.",
	"4001": "Abort, Service Aborted.",
}
