package fins

import (
	"sync"
	"time"
)

const statsWindowSize = 50

// Statistics holds the Sequence Manager's running counters: reply,
// error, and timeout counts, a rolling round-trip average over the
// last 50 samples, messages-per-second resampled every second, and
// total runtime.
type Statistics struct {
	mu sync.Mutex

	replyCount   int64
	errorCount   int64
	timeoutCount int64

	window    [statsWindowSize]time.Duration
	windowLen int
	windowPos int

	minMs, maxMs float64
	haveSample   bool

	msgSinceTick int64
	msgPerSec    float64

	startedAt time.Time
	stopTick  chan struct{}
	stopped   bool
}

// newStatistics starts the statistics collector, including its 1-second
// messages-per-second ticker.
func newStatistics() *Statistics {
	s := &Statistics{startedAt: time.Now(), stopTick: make(chan struct{})}
	go s.tickLoop()
	return s
}

func (s *Statistics) tickLoop() {
	ticker := time.NewTicker(1000 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.msgPerSec = float64(s.msgSinceTick)
			s.msgSinceTick = 0
			s.mu.Unlock()
		case <-s.stopTick:
			return
		}
	}
}

// recordReply records a successful round trip.
func (s *Statistics) recordReply(rtt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyCount++
	s.msgSinceTick++
	s.pushWindow(rtt)

	ms := float64(rtt) / float64(time.Millisecond)
	if !s.haveSample || ms < s.minMs {
		s.minMs = ms
	}
	if !s.haveSample || ms > s.maxMs {
		s.maxMs = ms
	}
	s.haveSample = true
}

// recordError records a transport/protocol error outcome.
func (s *Statistics) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
}

// recordTimeout records a timed-out sequence.
func (s *Statistics) recordTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeoutCount++
}

func (s *Statistics) pushWindow(rtt time.Duration) {
	s.window[s.windowPos] = rtt
	s.windowPos = (s.windowPos + 1) % statsWindowSize
	if s.windowLen < statsWindowSize {
		s.windowLen++
	}
}

// Snapshot is an immutable copy of the statistics at a point in time.
type Snapshot struct {
	ReplyCount     int64
	ErrorCount     int64
	TimeoutCount   int64
	MinMs          float64
	MaxMs          float64
	AverageReplyMs float64
	MsgPerSec      float64
	RuntimeMs      int64
}

// Snapshot returns a consistent copy of the running counters.
func (s *Statistics) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum time.Duration
	for i := 0; i < s.windowLen; i++ {
		sum += s.window[i]
	}
	var avg float64
	if s.windowLen > 0 {
		avg = float64(sum) / float64(s.windowLen) / float64(time.Millisecond)
	}

	return Snapshot{
		ReplyCount:     s.replyCount,
		ErrorCount:     s.errorCount,
		TimeoutCount:   s.timeoutCount,
		MinMs:          s.minMs,
		MaxMs:          s.maxMs,
		AverageReplyMs: avg,
		MsgPerSec:      s.msgPerSec,
		RuntimeMs:      time.Since(s.startedAt).Milliseconds(),
	}
}

// close stops the messages-per-second ticker.
func (s *Statistics) close() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()
	close(s.stopTick)
}
