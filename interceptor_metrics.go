package fins

import (
	"sync"
	"time"
)

// MetricsCollector collects per-command call counts, error counts, and
// average admission latency. Safe for concurrent use.
//
// Example:
//
//	metrics := fins.NewMetricsCollector()
//	engine.Use(metrics.Interceptor())
//	count, errs, avg := metrics.GetStats(fins.CommandMemoryAreaRead)
type MetricsCollector struct {
	mu            sync.RWMutex
	callCount     map[CommandCode]int64
	errorCount    map[CommandCode]int64
	totalDuration map[CommandCode]time.Duration
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		callCount:     make(map[CommandCode]int64),
		errorCount:    make(map[CommandCode]int64),
		totalDuration: make(map[CommandCode]time.Duration),
	}
}

// Interceptor returns an Interceptor that records this collector's stats.
func (m *MetricsCollector) Interceptor() Interceptor {
	return func(info *InterceptorInfo, invoker Invoker) (interface{}, error) {
		start := time.Now()
		result, err := invoker()
		duration := time.Since(start)

		m.mu.Lock()
		m.callCount[info.Operation]++
		m.totalDuration[info.Operation] += duration
		if err != nil {
			m.errorCount[info.Operation]++
		}
		m.mu.Unlock()

		return result, err
	}
}

// GetStats returns the call count, error count, and average admission
// latency recorded for op.
func (m *MetricsCollector) GetStats(op CommandCode) (count, errors int64, avg time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count = m.callCount[op]
	errors = m.errorCount[op]
	if count > 0 {
		avg = m.totalDuration[op] / time.Duration(count)
	}
	return
}

// Reset clears all collected metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = make(map[CommandCode]int64)
	m.errorCount = make(map[CommandCode]int64)
	m.totalDuration = make(map[CommandCode]time.Duration)
}
