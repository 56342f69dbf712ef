package fins

// CallOptions customizes one call: a per-request routing override, a
// timeout override, a free-form tag carried onto the Sequence, and an
// optional callback. With no callback, the outcome is broadcast on
// Engine.Events() instead.
type CallOptions struct {
	Routing   *RoutingOverride
	TimeoutMs int
	Tag       interface{}
	Callback  func(err error, seq *Sequence)
}

// Read issues a Memory Area Read for count words or bits starting at
// address, returning the allocated SID. The decoded values arrive on
// the completion when the reply (or a timeout/error) terminates the
// sequence.
func (e *Engine) Read(address string, count uint16, opts CallOptions) (byte, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return e.fail(opts, err)
	}
	body, err := buildReadBody(addr, e.cfg.family, count)
	if err != nil {
		return e.fail(opts, err)
	}
	req := Request{Address: &addr, Count: count}
	return e.submit(CommandMemoryAreaRead, body, req, opts)
}

// Write issues a Memory Area Write of payload (count*2 bytes for a word
// address, count bytes for a bit address) to address.
func (e *Engine) Write(address string, count uint16, payload []byte, opts CallOptions) (byte, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return e.fail(opts, err)
	}
	body, err := buildWriteBody(addr, e.cfg.family, count, payload)
	if err != nil {
		return e.fail(opts, err)
	}
	req := Request{Address: &addr, Count: count, DataBytes: payload}
	return e.submit(CommandMemoryAreaWrite, body, req, opts)
}

// Fill issues a Memory Area Fill, writing fillValue to count consecutive
// words starting at address.
func (e *Engine) Fill(address string, count uint16, fillValue uint16, opts CallOptions) (byte, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return e.fail(opts, err)
	}
	body, err := buildFillBody(addr, e.cfg.family, count, fillValue)
	if err != nil {
		return e.fail(opts, err)
	}
	req := Request{Address: &addr, Count: count}
	return e.submit(CommandMemoryAreaFill, body, req, opts)
}

// ReadMultiple issues a Multiple Memory Read across a heterogeneous
// list of addresses, each read as a single word or bit.
func (e *Engine) ReadMultiple(addresses []string, opts CallOptions) (byte, error) {
	addrs := make([]MemoryAddress, 0, len(addresses))
	for _, s := range addresses {
		addr, err := ParseAddress(s)
		if err != nil {
			return e.fail(opts, err)
		}
		addrs = append(addrs, addr)
	}
	body, err := buildMultiReadBody(addrs, e.cfg.family)
	if err != nil {
		return e.fail(opts, err)
	}
	req := Request{Addresses: addrs}
	return e.submit(CommandMultipleMemoryRead, body, req, opts)
}

// Transfer issues a Memory Area Transfer, copying count words from src
// to dst within the PLC.
func (e *Engine) Transfer(src, dst string, count uint16, opts CallOptions) (byte, error) {
	srcAddr, err := ParseAddress(src)
	if err != nil {
		return e.fail(opts, err)
	}
	dstAddr, err := ParseAddress(dst)
	if err != nil {
		return e.fail(opts, err)
	}
	body, err := buildTransferBody(srcAddr, dstAddr, e.cfg.family, count)
	if err != nil {
		return e.fail(opts, err)
	}
	req := Request{Address: &srcAddr, Count: count}
	return e.submit(CommandMemoryAreaTransfer, body, req, opts)
}

// Run switches the PLC to Run/Monitor mode. mode is optional: nil issues
// the bare Run command, non-nil selects a specific run mode for the given program number.
func (e *Engine) Run(program uint16, mode *byte, opts CallOptions) (byte, error) {
	body := buildRunBody(program, mode)
	return e.submit(CommandRun, body, Request{}, opts)
}

// Stop switches the PLC to Program mode.
func (e *Engine) Stop(opts CallOptions) (byte, error) {
	return e.submit(CommandStop, nil, Request{}, opts)
}

// Status issues a Controller Status Read.
func (e *Engine) Status(opts CallOptions) (byte, error) {
	return e.submit(CommandControllerStatus, nil, Request{}, opts)
}

// CPUUnitDataRead issues a CPU Unit Data Read.
func (e *Engine) CPUUnitDataRead(opts CallOptions) (byte, error) {
	return e.submit(CommandCPUUnitDataRead, nil, Request{}, opts)
}

// ReadClock issues a Clock Read, a feature the distilled protocol left
// out but that every real FINS-speaking PLC family supports.
func (e *Engine) ReadClock(opts CallOptions) (byte, error) {
	return e.submit(CommandClockRead, nil, Request{}, opts)
}
