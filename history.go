package main

import (
	"sync"
	"time"
)

const historyBucket = time.Hour

// HistorySample is one hourly player-count bucket.
type HistorySample struct {
	Timestamp time.Time
	Count     int
}

// HistoryBuffer keeps a capped, hour-coalesced player-count series per server.
type HistoryBuffer struct {
	mu     sync.Mutex
	series map[string][]HistorySample
	now    func() time.Time
}

func NewHistoryBuffer() *HistoryBuffer {
	return &HistoryBuffer{
		series: make(map[string][]HistorySample),
		now:    time.Now,
	}
}

// Record appends a new sample when the newest one is at least an hour old and
// otherwise overwrites the newest count. Oldest samples are evicted past capacity.
func (h *HistoryBuffer) Record(key string, count, capacity int) {
	if capacity <= 0 {
		capacity = defaultHistoryHours
	}
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	samples := h.series[key]
	if len(samples) == 0 || now.Sub(samples[len(samples)-1].Timestamp) >= historyBucket {
		samples = append(samples, HistorySample{Timestamp: now, Count: count})
		if over := len(samples) - capacity; over > 0 {
			samples = append([]HistorySample(nil), samples[over:]...)
		}
	} else {
		samples[len(samples)-1].Count = count
	}
	h.series[key] = samples
}

// Snapshot returns a copy of the series for key, oldest first.
func (h *HistoryBuffer) Snapshot(key string) []HistorySample {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]HistorySample(nil), h.series[key]...)
}
