package streaming

// EventType discriminates the events carried on an orchestrator stream.
type EventType string

const (
	// EventAgentSelected announces which backend agent will answer the turn.
	// Carries the raw agent key and, for new conversations, the session ID
	// the backend allocated.
	EventAgentSelected EventType = "agent_selected"

	// EventChunk carries an incremental piece of the response text.
	EventChunk EventType = "chunk"

	// EventError carries a human-readable failure description. Terminal.
	EventError EventType = "error"

	// EventDone marks the end of the turn. Terminal. Events arriving after
	// it on the wire are never delivered.
	EventDone EventType = "done"
)

// Event is a single decoded stream event.
//
// Exactly one of the payload fields is meaningful, selected by Type:
// Agent/SessionID for agent_selected, Content for chunk, Message for error.
// Events are delivered in arrival order and each is consumed exactly once.
type Event struct {
	Type      EventType `json:"type"`
	Agent     string    `json:"agent,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Message   string    `json:"error,omitempty"`
}

// IsTerminal reports whether no further events follow this one.
func (e Event) IsTerminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// Request is the payload sent to open an orchestrator stream.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}
