package streaming

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one conversation turn.
//
// An agent message starts empty and is mutable only while its stream is
// still delivering chunks; it freezes permanently on done or error. Content
// accumulated before a failure is kept, never discarded.
type Message struct {
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	AgentLabel  string    `json:"agent_label,omitempty"`
	RawAgentKey string    `json:"raw_agent_key,omitempty"`
}

// Assembler applies a stream's events to a single agent message.
//
// It also tracks the session ID for the turn: when the caller opened the
// stream without one, the ID announced by agent_selected is adopted.
type Assembler struct {
	msg       Message
	sessionID string
	frozen    bool
	failure   string
}

// NewAssembler creates an assembler for a fresh agent message.
// sessionID may be empty for a brand-new conversation.
func NewAssembler(sessionID string) *Assembler {
	return &Assembler{
		msg: Message{
			Role:      RoleAgent,
			Timestamp: time.Now(),
		},
		sessionID: sessionID,
	}
}

// Apply folds one event into the message. Events arriving after the message
// froze are ignored, keeping abandonment idempotent.
func (a *Assembler) Apply(ev Event) {
	if a.frozen {
		return
	}

	switch ev.Type {
	case EventAgentSelected:
		a.msg.RawAgentKey = ev.Agent
		if a.sessionID == "" && ev.SessionID != "" {
			a.sessionID = ev.SessionID
		}
	case EventChunk:
		a.msg.Content += ev.Content
	case EventError:
		a.failure = ev.Message
		a.frozen = true
	case EventDone:
		a.frozen = true
	}
}

// Message returns the assembled message in its current state.
func (a *Assembler) Message() Message {
	return a.msg
}

// SessionID returns the session ID for the turn, adopted from the stream
// when the caller had none.
func (a *Assembler) SessionID() string {
	return a.sessionID
}

// Done reports whether the message has frozen.
func (a *Assembler) Done() bool {
	return a.frozen
}

// Failure returns the error message that froze this turn, if any.
func (a *Assembler) Failure() string {
	return a.failure
}
