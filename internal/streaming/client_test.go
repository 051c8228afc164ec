package streaming

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lifeos/agent-api/internal/logger"
)

func discardLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// flushLines writes each string to the response as-is with an immediate
// flush, so every element arrives in its own read on the client side.
func flushLines(t *testing.T, w http.ResponseWriter, parts ...string) {
	t.Helper()
	flusher, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("response writer does not support flushing")
	}
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return
		}
		flusher.Flush()
	}
}

func newStreamServer(t *testing.T, parts ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flushLines(t, w, parts...)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collectEvents(t *testing.T, srv *httptest.Server, message string) []Event {
	t.Helper()
	client := NewClient(srv.URL, 5*time.Second, discardLogger())
	stream, err := client.OpenStream(context.Background(), Request{Message: message})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer stream.Close()

	var events []Event
	for ev := range stream.Events() {
		events = append(events, ev)
	}
	return events
}

func TestOpenStreamRejectsEmptyMessage(t *testing.T) {
	client := NewClient("http://localhost:1", time.Second, discardLogger())
	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := client.OpenStream(context.Background(), Request{Message: msg}); err != ErrEmptyMessage {
			t.Errorf("OpenStream(%q) error = %v, want ErrEmptyMessage", msg, err)
		}
	}
}

func TestStreamChunksAcrossReads(t *testing.T) {
	// The chunk line itself arrives in two pieces: the newline only shows
	// up in the second read, so the first piece must be buffered intact.
	srv := newStreamServer(t,
		`data: {"type":"agent_selected","agent":"meal_planner","session_id":"abc"}`+"\n",
		`data: {"type":"chunk","con`,
		`tent":"Hel"}`+"\n",
		`data: {"type":"chunk","content":"lo"}`+"\n",
		`data: {"type":"done"}`+"\n",
	)

	events := collectEvents(t, srv, "what's for dinner")

	want := []Event{
		{Type: EventAgentSelected, Agent: "meal_planner", SessionID: "abc"},
		{Type: EventChunk, Content: "Hel"},
		{Type: EventChunk, Content: "lo"},
		{Type: EventDone},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestStreamMultiByteRuneSplitAcrossReads(t *testing.T) {
	line := `data: {"type":"chunk","content":"crème brûlée"}` + "\n"
	// Cut inside the two-byte è sequence.
	cut := strings.Index(line, "è") + 1
	srv := newStreamServer(t, line[:cut], line[cut:], `data: {"type":"done"}`+"\n")

	events := collectEvents(t, srv, "dessert ideas")

	if len(events) != 2 {
		t.Fatalf("got %d events %v, want chunk+done", len(events), events)
	}
	if events[0].Content != "crème brûlée" {
		t.Errorf("content = %q, want the rune reassembled", events[0].Content)
	}
}

func TestStreamSkipsMalformedAndUnprefixedLines(t *testing.T) {
	srv := newStreamServer(t,
		": heartbeat\n",
		"data: {not json}\n",
		"event: noise\n",
		"\n",
		`data: {"type":"sparkle"}`+"\n",
		`data: {"type":"chunk","content":"ok"}`+"\n",
		`data: {"type":"done"}`+"\n",
	)

	events := collectEvents(t, srv, "hello there friend")

	if len(events) != 2 {
		t.Fatalf("got %d events %v, want chunk+done", len(events), events)
	}
	if events[0].Content != "ok" {
		t.Errorf("content = %q, want ok", events[0].Content)
	}
}

func TestStreamNothingAfterDone(t *testing.T) {
	srv := newStreamServer(t,
		`data: {"type":"done"}`+"\n",
		`data: {"type":"chunk","content":"late"}`+"\n",
	)

	events := collectEvents(t, srv, "short question here")

	if len(events) != 1 || events[0].Type != EventDone {
		t.Errorf("events = %v, want only done", events)
	}
}

func TestStreamErrorStatusBecomesErrorEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	events := collectEvents(t, srv, "hello there friend")

	if len(events) != 1 || events[0].Type != EventError {
		t.Fatalf("events = %v, want single error event", events)
	}
	if !strings.Contains(events[0].Message, "502") {
		t.Errorf("message = %q, want status code", events[0].Message)
	}
}

func TestStreamEOFWithoutDoneCompletes(t *testing.T) {
	srv := newStreamServer(t, `data: {"type":"chunk","content":"partial"}`+"\n")

	events := collectEvents(t, srv, "hello there friend")

	if len(events) != 2 || events[1].Type != EventDone {
		t.Errorf("events = %v, want chunk then synthesized done", events)
	}
}

func TestStreamCRLFLines(t *testing.T) {
	srv := newStreamServer(t,
		`data: {"type":"chunk","content":"win"}`+"\r\n",
		`data: {"type":"done"}`+"\r\n",
	)

	events := collectEvents(t, srv, "hello there friend")

	if len(events) != 2 || events[0].Content != "win" {
		t.Errorf("events = %v, want CRLF handled", events)
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flushLines(t, w, `data: {"type":"chunk","content":"x"}`+"\n")
		<-block
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	client := NewClient(srv.URL, 5*time.Second, discardLogger())
	stream, err := client.OpenStream(context.Background(), Request{Message: "hello there friend"})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}

	stream.Close()
	stream.Close()

	// The reader goroutine shuts down and closes the channel.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stream.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after Close")
		}
	}
}

func TestConsumeDispatchesCallbacks(t *testing.T) {
	srv := newStreamServer(t,
		`data: {"type":"agent_selected","agent":"wellness_agent","session_id":"s-9"}`+"\n",
		`data: {"type":"chunk","content":"take "}`+"\n",
		`data: {"type":"chunk","content":"a walk"}`+"\n",
		`data: {"type":"done"}`+"\n",
	)

	client := NewClient(srv.URL, 5*time.Second, discardLogger())

	var agentKey, sessionID, content string
	var done bool
	err := client.Consume(context.Background(), Request{Message: "wellness check today"}, Callbacks{
		OnAgentSelected: func(a, s string) { agentKey, sessionID = a, s },
		OnChunk:         func(c string) { content += c },
		OnDone:          func() { done = true },
	})
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if agentKey != "wellness_agent" || sessionID != "s-9" {
		t.Errorf("agent_selected = (%q, %q)", agentKey, sessionID)
	}
	if content != "take a walk" {
		t.Errorf("content = %q", content)
	}
	if !done {
		t.Error("OnDone not invoked")
	}
}

func TestConsumeErrorCallback(t *testing.T) {
	srv := newStreamServer(t, `data: {"type":"error","error":"backend exploded"}`+"\n")

	client := NewClient(srv.URL, 5*time.Second, discardLogger())

	var errMsg string
	err := client.Consume(context.Background(), Request{Message: "hello there friend"}, Callbacks{
		OnError: func(m string) { errMsg = m },
	})
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if errMsg != "backend exploded" {
		t.Errorf("error message = %q", errMsg)
	}
}
