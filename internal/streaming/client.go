package streaming

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lifeos/agent-api/internal/logger"
)

const (
	// eventMarker prefixes every interpretable line on the wire.
	// Lines without it (heartbeats, comments) are ignored.
	eventMarker = "data: "

	// maxLineBytes is the maximum size of a single event line.
	// Protects against a misbehaving upstream that never sends a newline.
	maxLineBytes = 1024 * 1024 // 1MB

	// defaultReadBufferSize is the size of each read from the upstream body.
	defaultReadBufferSize = 4 * 1024
)

// ErrEmptyMessage is returned when a stream is opened with a blank message.
var ErrEmptyMessage = errors.New("message must not be empty")

// Client opens response streams against the orchestrator backend.
//
// The backend answers a POST with a chunked body of newline-delimited,
// "data: "-prefixed JSON event lines. The client decodes that wire format
// into an ordered Event sequence:
//   - Bytes are buffered until a newline arrives, so a multi-byte rune
//     split across two reads is never decoded in halves.
//   - A trailing partial line is retained and prepended to the next read.
//   - Unparseable event lines are logged and skipped, never fatal.
//   - Transport failure, a non-success status, or a body-read failure
//     surfaces as a single terminal error event. No automatic retry.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a stream client for the given orchestrator endpoint.
// readTimeout bounds the total lifetime of one stream.
func NewClient(endpoint string, readTimeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: readTimeout,
		},
		logger: log.WithComponent("stream-client"),
	}
}

// Stream is one in-flight response stream.
//
// Events are received from Events() in arrival order. The channel is closed
// after a terminal event (done or error) has been delivered. Close abandons
// the stream; it is idempotent and safe to call at any point.
type Stream struct {
	events    chan Event
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Events returns the ordered event sequence for this stream.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close abandons the stream. Buffered events are discarded and the reader
// goroutine shuts down. Safe to call multiple times.
func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
}

// OpenStream sends the request and returns a Stream of decoded events.
//
// The returned error covers caller mistakes only (blank message). Failures
// of the network call itself are delivered as a terminal error event so the
// caller handles every failure mode through the one event path.
func (c *Client) OpenStream(ctx context.Context, req Request) (*Stream, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s := &Stream{
		events: make(chan Event, 16),
		cancel: cancel,
	}

	go c.readStream(streamCtx, req, s)

	return s, nil
}

// readStream performs the upstream request and pumps decoded events into the
// stream channel. Runs in its own goroutine; always closes the channel.
func (c *Client) readStream(ctx context.Context, req Request, s *Stream) {
	defer close(s.events)
	defer s.cancel()

	body, err := json.Marshal(req)
	if err != nil {
		c.deliver(ctx, s, Event{Type: EventError, Message: fmt.Sprintf("failed to encode request: %v", err)})
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.deliver(ctx, s, Event{Type: EventError, Message: fmt.Sprintf("failed to build request: %v", err)})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.deliver(ctx, s, Event{Type: EventError, Message: fmt.Sprintf("stream request failed: %v", err)})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.deliver(ctx, s, Event{Type: EventError, Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))})
		return
	}

	c.pumpEvents(ctx, resp.Body, s)
}

// pumpEvents reads the chunked body and emits one event per complete line.
//
// The split is done on raw bytes and only complete lines are converted to
// strings, so a UTF-8 sequence broken across two reads stays intact in the
// pending buffer until its line completes.
func (c *Client) pumpEvents(ctx context.Context, body io.Reader, s *Stream) {
	buf := make([]byte, defaultReadBufferSize)
	var pending []byte

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := string(pending[:idx])
				pending = pending[idx+1:]

				if terminal := c.handleLine(ctx, line, s); terminal {
					return
				}
			}

			if len(pending) > maxLineBytes {
				c.deliver(ctx, s, Event{Type: EventError, Message: "stream line exceeds maximum size"})
				return
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				// Transport closed without an explicit done event.
				// Treat as normal completion so the turn freezes cleanly.
				c.deliver(ctx, s, Event{Type: EventDone})
				return
			}
			if ctx.Err() != nil {
				// Abandoned by the consumer. Nothing left to apply.
				return
			}
			c.deliver(ctx, s, Event{Type: EventError, Message: fmt.Sprintf("stream read failed: %v", readErr)})
			return
		}
	}
}

// handleLine decodes a single wire line and delivers its event.
// Returns true when the stream is finished and no more lines may be applied.
func (c *Client) handleLine(ctx context.Context, line string, s *Stream) bool {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return false
	}

	if !strings.HasPrefix(line, eventMarker) {
		return false
	}

	var ev Event
	if err := json.Unmarshal([]byte(line[len(eventMarker):]), &ev); err != nil {
		c.logger.Warn("skipping malformed event line",
			slog.String("error", err.Error()),
			slog.Int("line_len", len(line)))
		return false
	}

	switch ev.Type {
	case EventAgentSelected, EventChunk, EventError, EventDone:
		if !c.deliver(ctx, s, ev) {
			return true
		}
		return ev.IsTerminal()
	default:
		c.logger.Warn("skipping event with unknown type",
			slog.String("type", string(ev.Type)))
		return false
	}
}

// deliver sends an event to the consumer, respecting abandonment.
// Returns false when the stream context was cancelled.
func (c *Client) deliver(ctx context.Context, s *Stream, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
