package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/logger"
)

// Stream names used for lifecycle messages and retry scheduling.
const (
	streamTraffic     = "traffic"
	streamMemory      = "memory"
	streamLogs        = "logs"
	streamConnections = "connections"
)

// TrafficMsg carries one traffic sample from the core.
type TrafficMsg struct {
	Sample api.Traffic
}

// MemoryMsg carries one memory sample from the core.
type MemoryMsg struct {
	Sample api.Memory
}

// LogMsg carries one log line from the core.
type LogMsg struct {
	Line api.LogLine
}

// ConnectionsMsg carries one diffed connections frame.
type ConnectionsMsg struct {
	Frame api.ConnectionsFrame
}

// StreamUpMsg reports a stream's dial succeeded.
type StreamUpMsg struct {
	Stream string
}

// StreamDownMsg reports a stream died, either at dial time or mid-read.
type StreamDownMsg struct {
	Stream string
	Err    error
}

// Bridge owns the WebSocket stream pumps. Each pump forwards decoded
// frames into the program queue, so all state changes stay inside the
// model's Update. A dying pump delivers one StreamDownMsg and exits;
// redial is the model's decision.
type Bridge struct {
	client  *api.Client
	program *tea.Program

	mu       sync.Mutex
	root     context.Context
	cancel   context.CancelFunc
	cancels  map[string]context.CancelFunc
	logLevel string
}

// NewBridge creates a bridge for the given client.
func NewBridge(client *api.Client, logLevel string) *Bridge {
	root, cancel := context.WithCancel(context.Background())
	return &Bridge{
		client:   client,
		root:     root,
		cancel:   cancel,
		cancels:  make(map[string]context.CancelFunc),
		logLevel: logLevel,
	}
}

// Attach hands the bridge the program handle. Must be called before the
// program runs.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

// SetLogLevel changes the level used by the next logs (re)subscription.
func (b *Bridge) SetLogLevel(level string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logLevel = level
}

// LogLevel returns the level the logs stream subscribes at.
func (b *Bridge) LogLevel() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logLevel
}

// Stop tears down every pump.
func (b *Bridge) Stop() {
	b.cancel()
}

// StartAll starts the four streams.
func (b *Bridge) StartAll() tea.Cmd {
	return tea.Batch(
		b.Start(streamTraffic),
		b.Start(streamMemory),
		b.Start(streamLogs),
		b.Start(streamConnections),
	)
}

// Start dials one stream. A still-running pump for the same stream is
// canceled first. The returned command reports StreamUpMsg on a
// successful dial and StreamDownMsg on a synchronous dial failure.
func (b *Bridge) Start(name string) tea.Cmd {
	return func() tea.Msg {
		b.mu.Lock()
		if prev, ok := b.cancels[name]; ok {
			prev()
			delete(b.cancels, name)
		}
		ctx, cancel := context.WithCancel(b.root)
		program := b.program
		level := b.logLevel
		b.mu.Unlock()

		var err error
		switch name {
		case streamTraffic:
			var ch <-chan api.StreamItem[api.Traffic]
			ch, err = b.client.StreamTraffic(ctx)
			if err == nil {
				go pumpStream(program, name, ch, func(v api.Traffic) tea.Msg { return TrafficMsg{Sample: v} })
			}
		case streamMemory:
			var ch <-chan api.StreamItem[api.Memory]
			ch, err = b.client.StreamMemory(ctx)
			if err == nil {
				go pumpStream(program, name, ch, func(v api.Memory) tea.Msg { return MemoryMsg{Sample: v} })
			}
		case streamLogs:
			var ch <-chan api.StreamItem[api.LogLine]
			ch, err = b.client.StreamLogs(ctx, level)
			if err == nil {
				go pumpStream(program, name, ch, func(v api.LogLine) tea.Msg { return LogMsg{Line: v} })
			}
		case streamConnections:
			var ch <-chan api.StreamItem[api.ConnectionsFrame]
			ch, err = b.client.StreamConnections(ctx)
			if err == nil {
				go pumpStream(program, name, ch, func(v api.ConnectionsFrame) tea.Msg { return ConnectionsMsg{Frame: v} })
			}
		}

		if err != nil {
			cancel()
			logger.Warn("stream dial failed", "stream", name, "error", err)
			return StreamDownMsg{Stream: name, Err: err}
		}

		b.mu.Lock()
		b.cancels[name] = cancel
		b.mu.Unlock()
		return StreamUpMsg{Stream: name}
	}
}

// pumpStream forwards items into the program queue until the channel
// closes. A terminal error item becomes a StreamDownMsg; a clean close
// after cancellation ends the pump silently.
func pumpStream[T any](p *tea.Program, name string, ch <-chan api.StreamItem[T], wrap func(T) tea.Msg) {
	for item := range ch {
		if item.Err != nil {
			logger.Warn("stream terminated", "stream", name, "error", item.Err)
			p.Send(StreamDownMsg{Stream: name, Err: item.Err})
			return
		}
		p.Send(wrap(item.Value))
	}
	logger.Debug("stream pump exited", "stream", name)
}
