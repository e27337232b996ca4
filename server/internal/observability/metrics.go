package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for store operations.
type Metrics struct {
	mu sync.Mutex

	// Counters
	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	// Per-operation metrics
	operationMetrics map[string]*OperationMetrics

	// Duration samples, capped to the most recent maxDurations
	durations    []time.Duration
	maxDurations int

	startTime time.Time
}

// OperationMetrics represents metrics for a specific store operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		operationMetrics: make(map[string]*OperationMetrics),
		durations:        make([]time.Duration, 0, maxDurations),
		maxDurations:     maxDurations,
		startTime:        time.Now(),
	}
}

// RecordRequest records a request for the given operation.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.getOperationMetrics(operation).executionCount.Add(1)
}

// RecordFailure records a failed request for the given operation.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.getOperationMetrics(operation).errorCount.Add(1)
}

// RecordDuration records the duration of a completed operation.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	m.getOperationMetrics(operation).totalDuration.Add(d.Milliseconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, d)
}

func (m *Metrics) getOperationMetrics(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	om, ok := m.operationMetrics[operation]
	if !ok {
		om = &OperationMetrics{}
		m.operationMetrics[operation] = om
	}
	return om
}

// OperationSnapshot is a point-in-time view of one operation's counters.
type OperationSnapshot struct {
	Requests      int64 `json:"requests"`
	Errors        int64 `json:"errors"`
	TotalDuration int64 `json:"total_duration_ms"`
}

// Snapshot is a point-in-time view of all collected metrics.
type Snapshot struct {
	UptimeSeconds int64                        `json:"uptime_seconds"`
	RequestTotal  int64                        `json:"request_total"`
	RequestFailed int64                        `json:"request_failed"`
	AvgDurationMs int64                        `json:"avg_duration_ms"`
	Operations    map[string]OperationSnapshot `json:"operations"`
}

// GetSnapshot returns a consistent snapshot of the collected metrics.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg int64
	if len(m.durations) > 0 {
		var total time.Duration
		for _, d := range m.durations {
			total += d
		}
		avg = (total / time.Duration(len(m.durations))).Milliseconds()
	}

	operations := make(map[string]OperationSnapshot, len(m.operationMetrics))
	for name, om := range m.operationMetrics {
		operations[name] = OperationSnapshot{
			Requests:      om.executionCount.Load(),
			Errors:        om.errorCount.Load(),
			TotalDuration: om.totalDuration.Load(),
		}
	}

	return Snapshot{
		UptimeSeconds: int64(time.Since(m.startTime).Seconds()),
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		AvgDurationMs: avg,
		Operations:    operations,
	}
}
