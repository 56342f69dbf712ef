package fins

import "time"

// SequenceState is the lifecycle state of a Sequence. Exactly one of
// complete/timeout/error terminates a sequence.
type SequenceState int

const (
	StatePending SequenceState = iota
	StateSent
	StateComplete
	StateTimeout
	StateError
)

// Completion is how a terminal sequence delivers its outcome, modeling
// the tagged "completion channel" from the design notes (§9): either a
// per-call callback, or a broadcast onto the engine's shared event
// stream. This sidesteps the "implicit self in a closure" ambiguity the
// source exhibits by always taking the engine explicitly.
type Completion interface {
	deliver(e *Engine, seq *Sequence, err error)
}

// CallbackCompletion invokes fn with the sequence's terminal error (nil
// on success) and the sequence itself.
type CallbackCompletion struct {
	Fn func(err error, seq *Sequence)
}

func (c CallbackCompletion) deliver(_ *Engine, seq *Sequence, err error) {
	if c.Fn != nil {
		c.Fn(err, seq)
	}
}

// BroadcastCompletion publishes the outcome on the engine's Events channel.
type BroadcastCompletion struct{}

func (BroadcastCompletion) deliver(e *Engine, seq *Sequence, err error) {
	if err != nil {
		e.emit(Event{Kind: classifyErrorEvent(err), Seq: seq, Err: err})
		return
	}
	e.emit(Event{Kind: EventReply, Seq: seq})
}

func classifyErrorEvent(err error) EventKind {
	switch err.(type) {
	case TimeoutError:
		return EventTimeout
	default:
		return EventError
	}
}

// Request captures a single command invocation, correlated by SID.
type Request struct {
	Sid        byte
	Command    CommandCode
	Family     Family
	Routing    *RoutingOverride
	Address    *MemoryAddress
	Addresses  []MemoryAddress // for multi-read
	Count      uint16
	DataBytes  []byte
	TimeoutMs  int
	UserTag    interface{}
	Completion Completion
}

// Response is the parsed reply to a Request.
type Response struct {
	RemoteHost  string
	Sid         byte
	Command     CommandCode
	EndCode     EndCode
	MRES        byte
	SRES        byte

	// Read replies.
	Values []interface{} // bool for bit addresses, int16 for word addresses
	Buffer []byte

	// Status reply.
	Status *ControllerStatus

	// CPU unit data reply.
	CPUUnitData *CPUUnitData

	// Clock reply.
	Clock *time.Time
}

// Sequence is a Sequence Manager entry keyed by SID.
type Sequence struct {
	Sid     byte
	Request Request
	Tag     interface{}

	CreatedAt time.Time
	SentAt    time.Time
	RepliedAt time.Time

	Sent     bool
	State    SequenceState
	TerminalErr error

	Response *Response

	timer *time.Timer
}

// RoundTrip returns the time between creation and reply. Zero if the
// sequence has not completed.
func (s *Sequence) RoundTrip() time.Duration {
	if s.RepliedAt.IsZero() {
		return 0
	}
	return s.RepliedAt.Sub(s.CreatedAt)
}

// isTerminal reports whether the sequence has reached one of its three
// terminal states.
func (s *Sequence) isTerminal() bool {
	return s.State == StateComplete || s.State == StateTimeout || s.State == StateError
}
