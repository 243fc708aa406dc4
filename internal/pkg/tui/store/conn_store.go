// Package store holds the entity stores feeding the TUI: ring buffers for
// connections and logs, metric histories for the charts, and the per-tab
// list state. Stores ingest regardless of UI mode; freezing is a view
// concern and lives in ListState.
package store

import (
	"sync"
	"time"

	"github.com/endorses/nekotop/internal/pkg/api"
)

// ConnRow is one tracked connection with its display-side state. Closed
// rows stay in the buffer until eviction pushes them out.
type ConnRow struct {
	Conn         api.Connection
	UploadRate   int64
	DownloadRate int64
	Closed       bool
	ClosedAt     time.Time
}

// ConnStore keeps connections in a fixed-capacity ring buffer, indexed by
// id for in-place updates. Eviction is strictly insertion order: the
// oldest row goes first whether it is open or closed.
type ConnStore struct {
	mu    sync.RWMutex
	rows  []ConnRow
	head  int // next write position; oldest row when full
	count int
	max   int
	index map[string]int // connection id -> ring position
	total int64          // connections ever added
}

// NewConnStore creates a store with the given ring capacity.
func NewConnStore(capacity int) *ConnStore {
	return &ConnStore{
		rows:  make([]ConnRow, capacity),
		max:   capacity,
		index: make(map[string]int),
	}
}

// Apply ingests one batch of lifecycle events. Updates and closes for
// unknown ids insert the row instead of being dropped, so a feed joined
// mid-stream still converges.
func (cs *ConnStore) Apply(events []api.ConnectionEvent) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for _, ev := range events {
		pos, known := cs.index[ev.Conn.ID]
		switch ev.Kind {
		case api.EventAdd, api.EventUpdate:
			if known {
				cs.rows[pos] = ConnRow{
					Conn:         ev.Conn,
					UploadRate:   ev.UploadRate,
					DownloadRate: ev.DownloadRate,
				}
			} else {
				cs.add(ConnRow{
					Conn:         ev.Conn,
					UploadRate:   ev.UploadRate,
					DownloadRate: ev.DownloadRate,
				})
			}
		case api.EventClose:
			if known {
				row := cs.rows[pos]
				row.Closed = true
				row.ClosedAt = time.Now()
				row.UploadRate = 0
				row.DownloadRate = 0
				cs.rows[pos] = row
			} else {
				cs.add(ConnRow{Conn: ev.Conn, Closed: true, ClosedAt: time.Now()})
			}
		}
	}
}

// add inserts at the head, evicting the oldest row when full. Must hold
// the write lock.
func (cs *ConnStore) add(row ConnRow) {
	if cs.count == cs.max {
		delete(cs.index, cs.rows[cs.head].Conn.ID)
	}
	cs.rows[cs.head] = row
	cs.index[row.Conn.ID] = cs.head
	cs.head = (cs.head + 1) % cs.max
	if cs.count < cs.max {
		cs.count++
	}
	cs.total++
}

// Snapshot returns the rows in insertion order, oldest first.
func (cs *ConnStore) Snapshot() []ConnRow {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	if cs.count == 0 {
		return nil
	}
	result := make([]ConnRow, cs.count)
	if cs.count < cs.max {
		copy(result, cs.rows[:cs.count])
		return result
	}
	for i := 0; i < cs.max; i++ {
		result[i] = cs.rows[(cs.head+i)%cs.max]
	}
	return result
}

// Get returns the row for a connection id.
func (cs *ConnStore) Get(id string) (ConnRow, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	pos, ok := cs.index[id]
	if !ok {
		return ConnRow{}, false
	}
	return cs.rows[pos], true
}

// Count returns the number of rows currently buffered.
func (cs *ConnStore) Count() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.count
}

// OpenCount returns the number of buffered rows not yet closed.
func (cs *ConnStore) OpenCount() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	open := 0
	for i := 0; i < cs.count; i++ {
		if !cs.rows[i].Closed {
			open++
		}
	}
	return open
}

// Total returns how many connections were ever inserted.
func (cs *ConnStore) Total() int64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.total
}

// Clear drops all rows, used when the feed is resubscribed.
func (cs *ConnStore) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.head = 0
	cs.count = 0
	cs.index = make(map[string]int)
}
