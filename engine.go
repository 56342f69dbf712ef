package fins

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Engine is the Protocol Engine: it owns the
// transport, mints headers and service ids, and drives requests through
// the Sequence Manager to their terminal completion.
type Engine struct {
	cfg  config
	host string
	port int

	sidMu   sync.Mutex
	lastSid byte

	tpMu      sync.RWMutex
	tp        transport
	headerTpl FinsHeader

	seqMgr *sequenceManager

	events chan Event
	log    *zap.Logger

	closeMu sync.Mutex
	closed  bool
	closeCh chan struct{}

	watchdog   *connectionWatchdog
	chain      *interceptorChain
	autoReconn *autoReconnector
}

// NewEngine opens a connection to host:port and returns a ready Engine.
// By default it dials UDP; pass WithProtocol("tcp") for FINS/TCP, which
// performs the node-assignment handshake before returning.
func NewEngine(host string, port int, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:       cfg,
		host:      host,
		port:      port,
		headerTpl: cfg.header,
		events:    make(chan Event, eventBufferSize),
		log:       cfg.log,
		chain:     newInterceptorChain(),
		closeCh:   make(chan struct{}),
	}
	e.seqMgr = newSequenceManager(e, cfg.maxQueue, cfg.timeoutMs)

	if err := e.connect(); err != nil {
		e.seqMgr.close()
		return nil, err
	}

	e.emit(Event{Kind: EventInitialised})
	return e, nil
}

func (e *Engine) connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var tp transport
	var err error
	switch e.cfg.protocol {
	case transportTCP:
		local, lerr := resolveTCP(e.cfg.localHost, e.cfg.localPort)
		if lerr != nil {
			return lerr
		}
		remote, rerr := resolveTCP(e.host, e.port)
		if rerr != nil {
			return rerr
		}
		tp, err = newTCPTransport(ctx, local, remote, e.log)
	default:
		local, lerr := resolveUDP(e.cfg.localHost, e.cfg.localPort)
		if lerr != nil {
			return lerr
		}
		remote, rerr := resolveUDP(e.host, e.port)
		if rerr != nil {
			return rerr
		}
		tp, err = newUDPTransport(local, remote, e.log)
	}
	if err != nil {
		return TransportError{Err: err}
	}

	tp.setHandlers(e.handleInbound, e.handleTransportClose)
	if err := tp.open(ctx); err != nil {
		return err
	}

	e.tpMu.Lock()
	if nodes := tp.nodeAssignment(); nodes != (nodeAssignment{}) {
		e.headerTpl = e.headerTpl.withNodes(nodes.ClientNode, nodes.ServerNode)
	}
	e.tp = tp
	e.tpMu.Unlock()

	e.emit(Event{Kind: EventOpen})
	if e.watchdog != nil {
		e.watchdog.notifyConnected()
	}
	return nil
}

// Use installs interceptors, each wrapping every call made after it is
// registered.
func (e *Engine) Use(interceptors ...Interceptor) {
	e.chain.use(interceptors...)
}

// Watchdog lazily installs and returns the engine's connection
// watchdog, which tracks uptime/downtime across reconnects.
func (e *Engine) Watchdog() *connectionWatchdog {
	e.closeMu.Lock()
	defer e.closeMu.Unlock()
	if e.watchdog == nil {
		e.watchdog = newConnectionWatchdog(16)
	}
	return e.watchdog
}

func resolveUDP(host string, port int) (*net.UDPAddr, error) {
	if host == "" && port == 0 {
		return nil, nil
	}
	return net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
}

func resolveTCP(host string, port int) (*net.TCPAddr, error) {
	if host == "" && port == 0 {
		return nil, nil
	}
	return net.ResolveTCPAddr("tcp", fmt.Sprintf("%s:%d", host, port))
}

// handleTransportClose is invoked from the transport's read loop when
// the connection drops. It notifies watchers and, if auto-reconnect was
// enabled, starts the auto-reconnector in the background.
func (e *Engine) handleTransportClose(err error) {
	e.emit(Event{Kind: EventClose, Err: err})
	if e.watchdog != nil {
		e.watchdog.notifyClosed(err)
	}
	if e.autoReconn != nil {
		e.autoReconn.mu.RLock()
		enabled := e.autoReconn.enabled
		e.autoReconn.mu.RUnlock()
		if enabled {
			go e.autoReconn.run()
		}
	}
}

// handleInbound decodes one reply frame and routes it to its sequence.
func (e *Engine) handleInbound(frame []byte) {
	in, err := parseInboundFrame(frame)
	if err != nil {
		e.emit(Event{Kind: EventError, Err: err})
		return
	}

	sid := in.Header.SID
	seq := e.seqMgr.get(sid)
	if seq == nil {
		e.emit(Event{Kind: EventError, Err: ProtocolError{Reason: fmt.Sprintf("reply for unknown sid %d", sid)}})
		return
	}
	if seq.Request.Command != in.Code {
		e.seqMgr.setError(sid, ProtocolError{Reason: "response command code mismatch"})
		return
	}

	resp, perr := parseResponseBody(seq.Request, in, e.remoteHostString())
	if perr != nil {
		e.seqMgr.setError(sid, perr)
		return
	}
	e.seqMgr.done(sid, resp)
}

func (e *Engine) remoteHostString() string {
	e.tpMu.RLock()
	defer e.tpMu.RUnlock()
	if e.tp == nil {
		return ""
	}
	addr := e.tp.remoteAddr()
	if addr == nil {
		return ""
	}
	return addr.String()
}

// isClosed reports whether Close has been called.
func (e *Engine) isClosed() bool {
	e.closeMu.Lock()
	defer e.closeMu.Unlock()
	return e.closed
}

// closeSignal returns the channel that is closed when Close runs, so a
// blocked goroutine (e.g. a reconnect backoff) can abort early instead
// of sleeping past it. nil on a zero-value Engine, which blocks forever
// in a select — equivalent to an engine that never closes.
func (e *Engine) closeSignal() <-chan struct{} {
	return e.closeCh
}

// nextSid advances the SID counter, wrapping 1..254.
func (e *Engine) nextSid() byte {
	e.sidMu.Lock()
	defer e.sidMu.Unlock()
	e.lastSid = byte(int(e.lastSid)%254 + 1)
	return e.lastSid
}

// fail delivers err through the call's completion (or the broadcast
// stream, if none was supplied) and returns it to the synchronous
// caller, matching the "deliver then return null" admission/validation
// failure pattern.
func (e *Engine) fail(opts CallOptions, err error) (byte, error) {
	var completion Completion = BroadcastCompletion{}
	if opts.Callback != nil {
		completion = CallbackCompletion{Fn: opts.Callback}
	}
	completion.deliver(e, &Sequence{State: StateError, TerminalErr: err}, err)
	return 0, err
}

// submit runs the admission, header-mint, frame-assembly, registration
// and deferred-send pipeline common to every command,
// wrapped by any installed interceptors. The interceptor chain sees the
// synchronous admission outcome (the allocated SID, or an immediate
// admission error such as QueueFullError or ClientClosedError); argument
// validation failures are reported before submit runs and never reach
// the chain. The reply itself is still delivered asynchronously through
// the sequence's completion.
func (e *Engine) submit(code CommandCode, body []byte, req Request, opts CallOptions) (byte, error) {
	if e.chain != nil && e.chain.len() > 0 {
		info := &InterceptorInfo{Operation: code, Address: req.Address, Count: req.Count, Data: req.DataBytes}
		result, err := e.chain.invoke(info, func() (interface{}, error) {
			return e.submitDirect(code, body, req, opts)
		})
		if sid, ok := result.(byte); ok {
			return sid, err
		}
		return 0, err
	}
	return e.submitDirect(code, body, req, opts)
}

func (e *Engine) submitDirect(code CommandCode, body []byte, req Request, opts CallOptions) (byte, error) {
	if e.isClosed() {
		return e.fail(opts, ClientClosedError{})
	}
	if e.seqMgr.activeCount() >= e.cfg.maxQueue {
		e.emit(Event{Kind: EventFull})
		return e.fail(opts, QueueFullError{MaxQueue: e.cfg.maxQueue})
	}

	sid := e.nextSid()

	e.tpMu.RLock()
	header := e.headerTpl.withRouting(opts.Routing).withSID(sid)
	e.tpMu.RUnlock()

	frame := outboundFrame(header, code, body)

	req.Sid = sid
	req.Command = code
	req.Family = e.cfg.family
	req.TimeoutMs = opts.TimeoutMs
	req.UserTag = opts.Tag
	if opts.Callback != nil {
		req.Completion = CallbackCompletion{Fn: opts.Callback}
	} else {
		req.Completion = BroadcastCompletion{}
	}

	seq, err := e.seqMgr.add(sid, req, opts.Tag)
	if err != nil {
		return e.fail(opts, err)
	}

	// Registration happens before the transport write is even scheduled,
	// so a reply that loops back immediately can never race ahead of its
	// own Sequence Manager entry.
	go e.deferredSend(seq, frame)
	return sid, nil
}

func (e *Engine) deferredSend(seq *Sequence, frame []byte) {
	e.tpMu.RLock()
	tp := e.tp
	e.tpMu.RUnlock()
	if tp == nil {
		e.seqMgr.setError(seq.Sid, ClientClosedError{})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tp.send(ctx, frame); err != nil {
		e.seqMgr.setError(seq.Sid, TransportError{Err: err})
		return
	}
	e.seqMgr.confirmSent(seq.Sid)
}

// QueueCount returns the number of requests currently awaiting a reply,
// timeout, or send failure.
func (e *Engine) QueueCount() int { return e.seqMgr.activeCount() }

// Stats returns a snapshot of the Sequence Manager's running statistics.
func (e *Engine) Stats() Snapshot { return e.seqMgr.stats.Snapshot() }

// Close stops accepting new requests, drops every in-flight sequence
// without delivering its completion, and tears down the transport.
func (e *Engine) Close() error {
	e.closeMu.Lock()
	if e.closed {
		e.closeMu.Unlock()
		return nil
	}
	e.closed = true
	if e.closeCh != nil {
		close(e.closeCh)
	}
	e.closeMu.Unlock()

	if e.watchdog != nil {
		e.watchdog.stop()
	}
	e.seqMgr.close()

	e.tpMu.RLock()
	tp := e.tp
	e.tpMu.RUnlock()
	var err error
	if tp != nil {
		err = tp.close()
	}
	e.emit(Event{Kind: EventClose})
	return err
}

// Reconnect tears down and re-opens the transport, re-running the
// FINS/TCP handshake when applicable. Callers invoke it directly, e.g.
// after a transport-level error or close event.
func (e *Engine) Reconnect() error {
	e.tpMu.RLock()
	old := e.tp
	e.tpMu.RUnlock()
	if old != nil {
		_ = old.close()
	}
	return e.connect()
}

// StringToFinsAddress parses a symbolic address and encodes it for the
// engine's configured PLC family, exposing the Address Codec directly.
func (e *Engine) StringToFinsAddress(s string) ([4]byte, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return [4]byte{}, err
	}
	return addr.Encode(e.cfg.family)
}

// FinsAddressToString renders a 4-byte wire address back to its
// canonical symbolic form by reverse-searching the configured family's
// tables. It is a diagnostic best-effort only: for area A and area C it
// does not invert computeOffset's addend arithmetic, so the offset it
// reports for those two areas may not match the original symbolic
// offset. Where several entries share one code (T and C; IR and DR,
// whose word and bit codes are equal) the reported area, and for IR/DR
// the word form, is that of the first matching entry found, and the
// choice between T and C is not fixed. Callers that already hold the
// originating MemoryAddress should use its String method instead.
func (e *Engine) FinsAddressToString(wire [4]byte) (string, error) {
	word := wordTable(e.cfg.family)
	bit := bitTable(e.cfg.family)
	for area, entry := range word {
		if entry.code == wire[0] {
			off := uint16(wire[1])<<8 | uint16(wire[2])
			return MemoryAddress{Area: area, Offset: off}.String(), nil
		}
	}
	for area, entry := range bit {
		if entry.code == wire[0] {
			off := (uint16(wire[1])<<8 | uint16(wire[2])) / 16
			b := wire[3]
			return MemoryAddress{Area: area, Offset: off, Bit: &b}.String(), nil
		}
	}
	return "", UnknownAreaError{Area: fmt.Sprintf("code 0x%02x", wire[0]), Family: e.cfg.family}
}
