package fins

import (
	"sync"
	"time"
)

// sequenceManager allocates service IDs, holds request state, fires
// timeouts, and maintains statistics. The engine supplies
// the SID (via its own monotonically advancing counter); the manager's
// job is to reject reuse of an in-use non-terminal SID.
type sequenceManager struct {
	mu        sync.Mutex
	slots     [255]*Sequence // index 0 unused; SIDs run 1..254
	capacity  int
	defaultMs int
	stats     *Statistics

	engine *Engine
}

func newSequenceManager(engine *Engine, capacity, defaultTimeoutMs int) *sequenceManager {
	return &sequenceManager{
		capacity:  capacity,
		defaultMs: defaultTimeoutMs,
		stats:     newStatistics(),
		engine:    engine,
	}
}

// add registers a new in-flight sequence for sid. Fails with
// SidInUseError if the slot holds a sequence that has not yet reached a
// terminal state.
func (m *sequenceManager) add(sid byte, req Request, tag interface{}) (*Sequence, error) {
	m.mu.Lock()
	if existing := m.slots[sid]; existing != nil && !existing.isTerminal() {
		m.mu.Unlock()
		return nil, SidInUseError{Sid: sid}
	}

	seq := &Sequence{
		Sid:       sid,
		Request:   req,
		Tag:       tag,
		CreatedAt: time.Now(),
		State:     StatePending,
	}
	m.slots[sid] = seq

	timeoutMs := req.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = m.defaultMs
	}
	seq.timer = time.AfterFunc(time.Duration(timeoutMs)*time.Millisecond, func() {
		m.expire(sid, timeoutMs)
	})
	m.mu.Unlock()
	return seq, nil
}

// get returns the sequence for sid, or nil if sid is out of range or unset.
func (m *sequenceManager) get(sid byte) *Sequence {
	if sid == 0 || int(sid) >= len(m.slots) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[sid]
}

// confirmSent records that the transport accepted the write for sid.
// Purely informational — it does not itself complete the sequence.
func (m *sequenceManager) confirmSent(sid byte) {
	m.mu.Lock()
	seq := m.slots[sid]
	if seq != nil {
		seq.Sent = true
		seq.SentAt = time.Now()
		seq.State = StateSent
	}
	m.mu.Unlock()
}

// done marks sid complete, cancels its timer, records round-trip time,
// and delivers the completion.
func (m *sequenceManager) done(sid byte, resp *Response) {
	m.mu.Lock()
	seq := m.slots[sid]
	if seq == nil || seq.isTerminal() {
		m.mu.Unlock()
		return
	}
	stopTimer(seq.timer)
	seq.RepliedAt = time.Now()
	seq.State = StateComplete
	seq.Response = resp
	m.mu.Unlock()

	m.stats.recordReply(seq.RoundTrip())
	m.deliver(seq, nil)
	m.remove(sid)
}

// setError marks sid errored, cancels its timer, and delivers err.
func (m *sequenceManager) setError(sid byte, err error) {
	m.mu.Lock()
	seq := m.slots[sid]
	if seq == nil || seq.isTerminal() {
		m.mu.Unlock()
		return
	}
	stopTimer(seq.timer)
	seq.State = StateError
	seq.TerminalErr = err
	m.mu.Unlock()

	m.stats.recordError()
	m.deliver(seq, err)
	m.remove(sid)
}

// expire is invoked by the per-sequence timer on timeout.
func (m *sequenceManager) expire(sid byte, timeoutMs int) {
	m.mu.Lock()
	seq := m.slots[sid]
	if seq == nil || seq.isTerminal() {
		m.mu.Unlock()
		return
	}
	seq.State = StateTimeout
	err := TimeoutError{Sid: sid, TimeoutMs: timeoutMs}
	seq.TerminalErr = err
	m.mu.Unlock()

	m.stats.recordTimeout()
	m.deliver(seq, err)
	m.remove(sid)
}

// remove cancels sid's timer (if still running) and drops its slot.
// Called exactly once per sequence, immediately after its terminal
// transition is delivered.
func (m *sequenceManager) remove(sid byte) {
	m.mu.Lock()
	seq := m.slots[sid]
	if seq != nil {
		stopTimer(seq.timer)
		m.slots[sid] = nil
	}
	m.mu.Unlock()
}

func (m *sequenceManager) deliver(seq *Sequence, err error) {
	var completion Completion = BroadcastCompletion{}
	if seq.Request.Completion != nil {
		completion = seq.Request.Completion
	}
	completion.deliver(m.engine, seq, err)
}

// activeCount returns the number of sequences that are neither
// complete, timed out, nor errored.
func (m *sequenceManager) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, seq := range m.slots {
		if seq != nil && !seq.isTerminal() {
			n++
		}
	}
	return n
}

// freeSpace returns capacity - activeCount().
func (m *sequenceManager) freeSpace() int {
	return m.capacity - m.activeCount()
}

// close cancels every timer, drops all sequences, and stops the MPS ticker.
func (m *sequenceManager) close() {
	m.mu.Lock()
	for i, seq := range m.slots {
		if seq != nil {
			stopTimer(seq.timer)
			m.slots[i] = nil
		}
	}
	m.mu.Unlock()
	m.stats.close()
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
