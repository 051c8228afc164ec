// Package save routes finalized agent responses to the persistence API:
// it picks the extractor for the response's agent, builds the payload,
// and posts it, tracking a per-message save state so the same message is
// never persisted twice.
package save

import "sync"

// State is the save lifecycle of a single message.
type State int

const (
	// StateIdle means the message has never been saved, or its last
	// attempt failed and it may be retried.
	StateIdle State = iota
	// StateSaving means a save request is in flight.
	StateSaving
	// StateSaved is terminal: the message is persisted and further save
	// requests are no-ops.
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	}
	return "idle"
}

// Tracker holds save states keyed by message key (session id plus the
// message's ordinal index). The zero state for an unknown key is
// StateIdle, so keys never need registering.
type Tracker struct {
	mu      sync.Mutex
	states  map[string]State
	lastErr map[string]error
}

func NewTracker() *Tracker {
	return &Tracker{
		states:  make(map[string]State),
		lastErr: make(map[string]error),
	}
}

// State returns the current save state of a message.
func (t *Tracker) State(messageKey string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[messageKey]
}

// LastError returns the error from the message's most recent failed
// attempt, or nil. A successful save clears it.
func (t *Tracker) LastError(messageKey string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr[messageKey]
}

// begin is the state machine's only entry point: it moves Idle to Saving
// atomically and reports whether the caller won the transition. A false
// return means the message is already saving or saved and the caller
// must do nothing.
func (t *Tracker) begin(messageKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states[messageKey] != StateIdle {
		return false
	}
	t.states[messageKey] = StateSaving
	return true
}

func (t *Tracker) succeed(messageKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[messageKey] = StateSaved
	delete(t.lastErr, messageKey)
}

func (t *Tracker) fail(messageKey string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[messageKey] = StateIdle
	t.lastErr[messageKey] = err
}
