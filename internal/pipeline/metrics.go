package pipeline

import (
	"sync"
	"time"
)

// Metrics accumulates reload timings.
type Metrics struct {
	mu            sync.Mutex
	renders       int64
	failures      int64
	totalDuration time.Duration
	lastDuration  time.Duration
	lastSuccess   time.Time
}

type MetricsSnapshot struct {
	Renders         int64
	Failures        int64
	LastDuration    time.Duration
	AverageDuration time.Duration
	LastSuccess     time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordSuccess(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.renders++
	m.totalDuration += d
	m.lastDuration = d
	m.lastSuccess = time.Now()
}

func (m *Metrics) RecordFailure(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures++
	m.lastDuration = d
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		Renders:      m.renders,
		Failures:     m.failures,
		LastDuration: m.lastDuration,
		LastSuccess:  m.lastSuccess,
	}
	if m.renders > 0 {
		snap.AverageDuration = m.totalDuration / time.Duration(m.renders)
	}
	return snap
}
