package memory

import (
	"sync"
	"time"

	"image-monitor/internal/logger"
)

// Tracker records live OpenCV allocations so leaks across reloads show up in
// the debug log.
type Tracker struct {
	mu          sync.Mutex
	allocations map[uint64]AllocationRecord
	stats       Stats
	logger      logger.Logger
}

type AllocationRecord struct {
	Tag       string
	Size      int64
	CreatedAt time.Time
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakActiveMats int64
}

func NewTracker(log logger.Logger) *Tracker {
	return &Tracker{
		allocations: make(map[uint64]AllocationRecord),
		logger:      log,
	}
}

func (t *Tracker) TrackAllocation(id uint64, size int64, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.allocations[id] = AllocationRecord{Tag: tag, Size: size, CreatedAt: time.Now()}
	t.stats.TotalAllocated += size
	t.stats.ActiveMats++
	if t.stats.ActiveMats > t.stats.PeakActiveMats {
		t.stats.PeakActiveMats = t.stats.ActiveMats
	}
}

func (t *Tracker) TrackDeallocation(id uint64, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, exists := t.allocations[id]
	if !exists {
		t.logger.Warning("MemoryTracker", "release of untracked Mat", map[string]interface{}{
			"id":  id,
			"tag": tag,
		})
		return
	}

	delete(t.allocations, id)
	t.stats.TotalReleased += record.Size
	t.stats.ActiveMats--
}

func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Leaks lists allocations that are still open.
func (t *Tracker) Leaks() []AllocationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	leaks := make([]AllocationRecord, 0, len(t.allocations))
	for _, record := range t.allocations {
		leaks = append(leaks, record)
	}
	return leaks
}
