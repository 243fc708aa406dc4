package api

import "sort"

// EventKind classifies a connection lifecycle change derived from two
// consecutive snapshots.
type EventKind int

const (
	// EventAdd is a connection id seen for the first time.
	EventAdd EventKind = iota
	// EventUpdate is a known connection with fresh byte counters.
	EventUpdate
	// EventClose is a connection present before and absent now.
	EventClose
)

// ConnectionEvent is one lifecycle change. Rates are byte deltas between
// the two snapshots that produced the event; adds and closes carry zero.
type ConnectionEvent struct {
	Kind         EventKind
	Conn         Connection
	UploadRate   int64
	DownloadRate int64
}

// ConnectionsFrame is the per-snapshot output of the differ: the derived
// events plus the totals the core reported alongside the snapshot.
type ConnectionsFrame struct {
	Events        []ConnectionEvent
	UploadTotal   int64
	DownloadTotal int64
	ActiveCount   int
	Memory        int64
}

// connDiffer turns full connection snapshots into add/update/close events.
// The core resends the complete active set every interval and never says
// which connections went away, so closures are inferred here.
type connDiffer struct {
	last map[string]Connection
}

func newConnDiffer() *connDiffer {
	return &connDiffer{last: make(map[string]Connection)}
}

func (d *connDiffer) diff(snap ConnectionsSnapshot) ConnectionsFrame {
	frame := ConnectionsFrame{
		UploadTotal:   snap.UploadTotal,
		DownloadTotal: snap.DownloadTotal,
		ActiveCount:   len(snap.Connections),
		Memory:        snap.Memory,
	}

	seen := make(map[string]struct{}, len(snap.Connections))
	for _, conn := range snap.Connections {
		seen[conn.ID] = struct{}{}
		prev, known := d.last[conn.ID]
		if !known {
			frame.Events = append(frame.Events, ConnectionEvent{Kind: EventAdd, Conn: conn})
		} else {
			frame.Events = append(frame.Events, ConnectionEvent{
				Kind:         EventUpdate,
				Conn:         conn,
				UploadRate:   conn.Upload - prev.Upload,
				DownloadRate: conn.Download - prev.Download,
			})
		}
		d.last[conn.ID] = conn
	}

	var closed []string
	for id := range d.last {
		if _, ok := seen[id]; !ok {
			closed = append(closed, id)
		}
	}
	sort.Strings(closed)
	for _, id := range closed {
		frame.Events = append(frame.Events, ConnectionEvent{Kind: EventClose, Conn: d.last[id]})
		delete(d.last, id)
	}

	return frame
}
