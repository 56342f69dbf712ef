package fins

// commandDescriptor describes one generically dispatchable command: how
// to build its wire body and Request metadata from a loosely-typed
// parameter map for the generic Command entry point.
type commandDescriptor struct {
	code  CommandCode
	build func(params map[string]interface{}, family Family) ([]byte, Request, error)
}

var commandDescriptors = map[string]commandDescriptor{
	CommandMemoryAreaRead.Hex():     {CommandMemoryAreaRead, buildReadParams},
	CommandMemoryAreaWrite.Hex():    {CommandMemoryAreaWrite, buildWriteParams},
	CommandMemoryAreaFill.Hex():     {CommandMemoryAreaFill, buildFillParams},
	CommandMultipleMemoryRead.Hex(): {CommandMultipleMemoryRead, buildMultiReadParams},
	CommandMemoryAreaTransfer.Hex(): {CommandMemoryAreaTransfer, buildTransferParams},
	CommandRun.Hex():                {CommandRun, buildRunParams},
	CommandStop.Hex():               {CommandStop, buildNoParams},
	CommandControllerStatus.Hex():   {CommandControllerStatus, buildNoParams},
	CommandCPUUnitDataRead.Hex():    {CommandCPUUnitDataRead, buildNoParams},
	CommandClockRead.Hex():          {CommandClockRead, buildNoParams},
}

// Command dispatches by 4-hex-digit command code, validating and
// unpacking params through the matching descriptor. Unknown codes and
// missing or wrongly typed parameters fail with InvalidParameterError;
// an address string that does not parse fails with InvalidAddressError,
// and an unknown area with UnknownAreaError.
func (e *Engine) Command(codeHex string, params map[string]interface{}, opts CallOptions) (byte, error) {
	desc, ok := commandDescriptors[codeHex]
	if !ok {
		if _, known := commandCodeByHex(codeHex); !known {
			return e.fail(opts, InvalidParameterError{Reason: "unknown command code " + codeHex})
		}
		return e.fail(opts, InvalidParameterError{Reason: "command " + codeHex + " has no generic dispatcher"})
	}

	body, req, err := desc.build(params, e.cfg.family)
	if err != nil {
		return e.fail(opts, err)
	}
	return e.submit(desc.code, body, req, opts)
}

func paramString(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", InvalidParameterError{Reason: "missing parameter " + key}
	}
	s, ok := v.(string)
	if !ok {
		return "", InvalidParameterError{Reason: "parameter " + key + " must be a string"}
	}
	return s, nil
}

func paramUint16(params map[string]interface{}, key string) (uint16, error) {
	v, ok := params[key]
	if !ok {
		return 0, InvalidParameterError{Reason: "missing parameter " + key}
	}
	switch n := v.(type) {
	case uint16:
		return n, nil
	case int:
		if n < 0 || n > 0xFFFF {
			return 0, InvalidParameterError{Reason: "parameter " + key + " out of range"}
		}
		return uint16(n), nil
	default:
		return 0, InvalidParameterError{Reason: "parameter " + key + " must be an integer"}
	}
}

func buildReadParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	addrStr, err := paramString(params, "address")
	if err != nil {
		return nil, Request{}, err
	}
	count, err := paramUint16(params, "count")
	if err != nil {
		return nil, Request{}, err
	}
	addr, err := ParseAddress(addrStr)
	if err != nil {
		return nil, Request{}, err
	}
	body, err := buildReadBody(addr, family, count)
	if err != nil {
		return nil, Request{}, err
	}
	return body, Request{Address: &addr, Count: count}, nil
}

func buildWriteParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	addrStr, err := paramString(params, "address")
	if err != nil {
		return nil, Request{}, err
	}
	count, err := paramUint16(params, "count")
	if err != nil {
		return nil, Request{}, err
	}
	payload, ok := params["data"].([]byte)
	if !ok {
		return nil, Request{}, InvalidParameterError{Reason: "parameter data must be a []byte"}
	}
	addr, err := ParseAddress(addrStr)
	if err != nil {
		return nil, Request{}, err
	}
	body, err := buildWriteBody(addr, family, count, payload)
	if err != nil {
		return nil, Request{}, err
	}
	return body, Request{Address: &addr, Count: count, DataBytes: payload}, nil
}

func buildFillParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	addrStr, err := paramString(params, "address")
	if err != nil {
		return nil, Request{}, err
	}
	count, err := paramUint16(params, "count")
	if err != nil {
		return nil, Request{}, err
	}
	fillValue, err := paramUint16(params, "value")
	if err != nil {
		return nil, Request{}, err
	}
	addr, err := ParseAddress(addrStr)
	if err != nil {
		return nil, Request{}, err
	}
	body, err := buildFillBody(addr, family, count, fillValue)
	if err != nil {
		return nil, Request{}, err
	}
	return body, Request{Address: &addr, Count: count}, nil
}

func buildMultiReadParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	raw, ok := params["addresses"].([]string)
	if !ok {
		return nil, Request{}, InvalidParameterError{Reason: "parameter addresses must be a []string"}
	}
	addrs := make([]MemoryAddress, 0, len(raw))
	for _, s := range raw {
		addr, err := ParseAddress(s)
		if err != nil {
			return nil, Request{}, err
		}
		addrs = append(addrs, addr)
	}
	body, err := buildMultiReadBody(addrs, family)
	if err != nil {
		return nil, Request{}, err
	}
	return body, Request{Addresses: addrs}, nil
}

func buildTransferParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	srcStr, err := paramString(params, "src")
	if err != nil {
		return nil, Request{}, err
	}
	dstStr, err := paramString(params, "dst")
	if err != nil {
		return nil, Request{}, err
	}
	count, err := paramUint16(params, "count")
	if err != nil {
		return nil, Request{}, err
	}
	src, err := ParseAddress(srcStr)
	if err != nil {
		return nil, Request{}, err
	}
	dst, err := ParseAddress(dstStr)
	if err != nil {
		return nil, Request{}, err
	}
	body, err := buildTransferBody(src, dst, family, count)
	if err != nil {
		return nil, Request{}, err
	}
	return body, Request{Address: &src, Count: count}, nil
}

func buildRunParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	program, _ := paramUint16(params, "program")
	if mode, ok := params["mode"]; ok {
		m, ok := mode.(byte)
		if !ok {
			return nil, Request{}, InvalidParameterError{Reason: "parameter mode must be a byte"}
		}
		return buildRunBody(program, &m), Request{}, nil
	}
	return buildRunBody(program, nil), Request{}, nil
}

func buildNoParams(params map[string]interface{}, family Family) ([]byte, Request, error) {
	return nil, Request{}, nil
}
