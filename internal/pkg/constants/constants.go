// Package constants provides shared constants used across nekotop components.
package constants

import "time"

// UI timing
const (
	// TUITickInterval is the fixed refresh tick for the dashboard.
	// Derived-view recomputation and time-based redraws happen at this rate.
	TUITickInterval = 250 * time.Millisecond

	// RESTRefreshInterval is how often the REST-polled lists (proxies,
	// rules, providers) are refetched while their tab is visible.
	RESTRefreshInterval = 5 * time.Second

)

// Ring buffer capacities
//
// Both rings trade completeness for bounded memory: the oldest record is
// evicted unconditionally once the ring is full, open or closed.
const (
	// ConnsBufferSize is the capacity of the connection capture ring
	ConnsBufferSize = 500

	// LogsBufferSize is the capacity of the core log ring
	LogsBufferSize = 500

	// MetricsWindowSize is the number of traffic/memory samples retained
	// for the overview sparklines (one sample per second from the core)
	MetricsWindowSize = 300
)

// StreamChannelBuffer is the buffer size for stream event channels.
// Pumps forward into the program queue immediately, so a small cushion
// is enough to absorb decode bursts without blocking the socket reader.
const StreamChannelBuffer = 64

// Proxy latency testing
const (
	// DefaultTestURL is probed by delay tests when the config does not
	// override it
	DefaultTestURL = "https://www.gstatic.com/generate_204"

	// DefaultTestTimeoutMS is the per-probe timeout in milliseconds
	DefaultTestTimeoutMS = 5000

	// LatencyGoodMS and LatencyMediumMS split latency coloring into
	// good / medium / bad bands
	LatencyGoodMS   = 500
	LatencyMediumMS = 1000
)

// RequestTimeout bounds every one-shot control API request.
const RequestTimeout = 10 * time.Second
