package store

import (
	"sync"

	"github.com/endorses/nekotop/internal/pkg/api"
)

// MetricsHistory keeps bounded windows of the traffic and memory feeds
// for the overview charts, plus the session totals reported alongside
// the connections feed.
type MetricsHistory struct {
	mu   sync.RWMutex
	up   []float64
	down []float64
	mem  []float64
	max  int

	lastTraffic api.Traffic
	lastMemory  api.Memory

	uploadTotal   int64
	downloadTotal int64
}

// NewMetricsHistory creates a history bounded to window points per series.
func NewMetricsHistory(window int) *MetricsHistory {
	return &MetricsHistory{max: window}
}

// PushTraffic appends one traffic sample.
func (mh *MetricsHistory) PushTraffic(t api.Traffic) {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	mh.lastTraffic = t
	mh.up = boundedAppend(mh.up, float64(t.Up), mh.max)
	mh.down = boundedAppend(mh.down, float64(t.Down), mh.max)
}

// PushMemory appends one memory sample.
func (mh *MetricsHistory) PushMemory(m api.Memory) {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	mh.lastMemory = m
	mh.mem = boundedAppend(mh.mem, float64(m.InUse), mh.max)
}

// SetTotals records the session byte totals from the connections feed.
func (mh *MetricsHistory) SetTotals(upload, download int64) {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	mh.uploadTotal = upload
	mh.downloadTotal = download
}

// Totals returns the session byte totals.
func (mh *MetricsHistory) Totals() (upload, download int64) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return mh.uploadTotal, mh.downloadTotal
}

// Last returns the most recent traffic and memory samples.
func (mh *MetricsHistory) Last() (api.Traffic, api.Memory) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return mh.lastTraffic, mh.lastMemory
}

// TrafficWindows returns copies of the upload and download series.
func (mh *MetricsHistory) TrafficWindows() (up, down []float64) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return copyWindow(mh.up), copyWindow(mh.down)
}

// MemoryWindow returns a copy of the memory series.
func (mh *MetricsHistory) MemoryWindow() []float64 {
	mh.mu.RLock()
	defer mh.mu.RUnlock()
	return copyWindow(mh.mem)
}

func boundedAppend(window []float64, v float64, max int) []float64 {
	window = append(window, v)
	if len(window) > max {
		window = window[1:]
	}
	return window
}

func copyWindow(window []float64) []float64 {
	if len(window) == 0 {
		return nil
	}
	out := make([]float64, len(window))
	copy(out, window)
	return out
}
