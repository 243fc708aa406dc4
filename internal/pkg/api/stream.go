package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/logger"
	"github.com/endorses/nekotop/internal/pkg/version"
)

// StreamItem carries one decoded frame or the terminal error of a stream.
// After an item with a non-nil Err the channel is closed; cancellation via
// context closes the channel without an error item.
type StreamItem[T any] struct {
	Value T
	Err   error
}

// StreamTraffic subscribes to the per-second up/down throughput feed.
func (c *Client) StreamTraffic(ctx context.Context) (<-chan StreamItem[Traffic], error) {
	return stream[Traffic](ctx, c, "traffic", "/traffic", nil)
}

// StreamMemory subscribes to the core memory usage feed.
func (c *Client) StreamMemory(ctx context.Context) (<-chan StreamItem[Memory], error) {
	return stream[Memory](ctx, c, "memory", "/memory", nil)
}

// StreamLogs subscribes to the core log feed. An empty level leaves the
// filter to the core's own configuration.
func (c *Client) StreamLogs(ctx context.Context, level string) (<-chan StreamItem[LogLine], error) {
	var q url.Values
	if level != "" {
		q = url.Values{}
		q.Set("level", level)
	}
	return stream[LogLine](ctx, c, "logs", "/logs", q)
}

// StreamConnections subscribes to the connections feed. The core sends
// full snapshots; this turns them into add/update/close frames so the
// store can keep closed connections around.
func (c *Client) StreamConnections(ctx context.Context) (<-chan StreamItem[ConnectionsFrame], error) {
	snaps, err := stream[ConnectionsSnapshot](ctx, c, "connections", "/connections", nil)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamItem[ConnectionsFrame], constants.StreamChannelBuffer)
	go func() {
		defer close(out)
		differ := newConnDiffer()
		for item := range snaps {
			var mapped StreamItem[ConnectionsFrame]
			if item.Err != nil {
				mapped.Err = item.Err
			} else {
				mapped.Value = differ.diff(item.Value)
			}
			select {
			case out <- mapped:
			case <-ctx.Done():
				return
			}
			if mapped.Err != nil {
				return
			}
		}
	}()
	return out, nil
}

// stream dials one WebSocket endpoint and decodes every text frame into T.
// The dial happens synchronously so a dead endpoint surfaces immediately;
// everything after that is delivered through the returned channel.
func stream[T any](ctx context.Context, c *Client, name, path string, query url.Values) (<-chan StreamItem[T], error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: constants.RequestTimeout,
	}
	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	conn, resp, err := dialer.DialContext(ctx, c.wsURL(path, query), header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("handshake rejected (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, &StreamError{Stream: name, Err: err}
	}

	out := make(chan StreamItem[T], constants.StreamChannelBuffer)
	done := make(chan struct{})

	// ReadMessage only returns on data or a dead socket, so cancellation
	// has to close the socket out from under it.
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(out)
		defer close(done)
		defer func() { _ = conn.Close() }()

		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- StreamItem[T]{Err: &StreamError{Stream: name, Err: err}}:
				case <-ctx.Done():
				}
				return
			}
			if kind != websocket.TextMessage {
				continue
			}

			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				logger.Warn("skipping undecodable stream frame",
					"stream", name, "error", err, "bytes", len(data))
				continue
			}

			select {
			case out <- StreamItem[T]{Value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// wsURL rewrites the base URL for a WebSocket endpoint. Stream endpoints
// authenticate through a token query parameter rather than a header.
func (c *Client) wsURL(path string, query url.Values) string {
	base := c.base
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.secret != "" {
		q.Set("token", c.secret)
	}
	if len(q) == 0 {
		return base + path
	}
	return base + path + "?" + q.Encode()
}
