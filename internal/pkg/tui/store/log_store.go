package store

import (
	"sync"
	"time"
)

// LogRow is one core log line with the receive timestamp; the feed itself
// carries no time information.
type LogRow struct {
	Level   string
	Payload string
	At      time.Time
}

// LogStore keeps log lines in a fixed-capacity ring buffer, oldest out
// first.
type LogStore struct {
	mu    sync.RWMutex
	rows  []LogRow
	head  int
	count int
	max   int
	total int64
}

// NewLogStore creates a store with the given ring capacity.
func NewLogStore(capacity int) *LogStore {
	return &LogStore{
		rows: make([]LogRow, capacity),
		max:  capacity,
	}
}

// Add appends one line, evicting the oldest when full.
func (ls *LogStore) Add(row LogRow) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.rows[ls.head] = row
	ls.head = (ls.head + 1) % ls.max
	if ls.count < ls.max {
		ls.count++
	}
	ls.total++
}

// Snapshot returns the lines in arrival order, oldest first.
func (ls *LogStore) Snapshot() []LogRow {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	if ls.count == 0 {
		return nil
	}
	result := make([]LogRow, ls.count)
	if ls.count < ls.max {
		copy(result, ls.rows[:ls.count])
		return result
	}
	for i := 0; i < ls.max; i++ {
		result[i] = ls.rows[(ls.head+i)%ls.max]
	}
	return result
}

// Count returns the number of buffered lines.
func (ls *LogStore) Count() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.count
}

// Total returns how many lines were ever received.
func (ls *LogStore) Total() int64 {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.total
}

// Clear drops all lines, used when the feed is resubscribed.
func (ls *LogStore) Clear() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.head = 0
	ls.count = 0
}
