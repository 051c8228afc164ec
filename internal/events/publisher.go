// Package events publishes pipeline lifecycle notifications over NATS so
// other LifeOS services (notifications, analytics) can react to chat
// activity without polling the API.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lifeos/agent-api/internal/logger"
	"github.com/nats-io/nats.go"
)

// NATS subjects for pipeline events.
const (
	SubjectStreamStarted   = "lifeos.stream.started"
	SubjectStreamCompleted = "lifeos.stream.completed"
	SubjectStreamFailed    = "lifeos.stream.failed"
	SubjectAgentSelected   = "lifeos.agent.selected"
	SubjectRecordSaved     = "lifeos.records.saved"
)

// StreamEvent is the payload for stream lifecycle subjects.
type StreamEvent struct {
	SessionID  string    `json:"session_id"`
	Agent      string    `json:"agent,omitempty"`
	Error      string    `json:"error,omitempty"`
	InstanceID string    `json:"instance_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecordSavedEvent is the payload for SubjectRecordSaved.
type RecordSavedEvent struct {
	SessionID  string    `json:"session_id,omitempty"`
	Domain     string    `json:"domain"`
	Agent      string    `json:"agent,omitempty"`
	InstanceID string    `json:"instance_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends pipeline events to NATS. A nil Publisher is valid and
// drops everything, so callers never need to branch on whether messaging
// is configured.
type Publisher struct {
	nc         *nats.Conn
	logger     *logger.Logger
	instanceID string
}

// NewPublisher wraps a NATS connection. Returns nil when nc is nil.
func NewPublisher(nc *nats.Conn, log *logger.Logger) *Publisher {
	if nc == nil {
		return nil
	}
	return &Publisher{
		nc:         nc,
		logger:     log.WithComponent("event-publisher"),
		instanceID: logger.GetInstanceID(),
	}
}

// StreamStarted announces that a relay to the orchestrator began.
func (p *Publisher) StreamStarted(sessionID string) {
	p.publish(SubjectStreamStarted, StreamEvent{
		SessionID:  sessionID,
		InstanceID: p.instanceIDOrEmpty(),
		OccurredAt: time.Now().UTC(),
	})
}

// StreamCompleted announces a finished stream with its resolved agent.
func (p *Publisher) StreamCompleted(sessionID, agent string) {
	p.publish(SubjectStreamCompleted, StreamEvent{
		SessionID:  sessionID,
		Agent:      agent,
		InstanceID: p.instanceIDOrEmpty(),
		OccurredAt: time.Now().UTC(),
	})
}

// StreamFailed announces a stream that ended with an upstream error.
func (p *Publisher) StreamFailed(sessionID, errMsg string) {
	p.publish(SubjectStreamFailed, StreamEvent{
		SessionID:  sessionID,
		Error:      errMsg,
		InstanceID: p.instanceIDOrEmpty(),
		OccurredAt: time.Now().UTC(),
	})
}

// AgentSelected announces which agent a persisted response resolved to.
func (p *Publisher) AgentSelected(sessionID, agent string) {
	p.publish(SubjectAgentSelected, StreamEvent{
		SessionID:  sessionID,
		Agent:      agent,
		InstanceID: p.instanceIDOrEmpty(),
		OccurredAt: time.Now().UTC(),
	})
}

// RecordSaved announces a successful save to a records domain.
func (p *Publisher) RecordSaved(sessionID, domain, agent string) {
	p.publish(SubjectRecordSaved, RecordSavedEvent{
		SessionID:  sessionID,
		Domain:     domain,
		Agent:      agent,
		InstanceID: p.instanceIDOrEmpty(),
		OccurredAt: time.Now().UTC(),
	})
}

// Close drains the underlying connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("failed to drain NATS connection", slog.String("error", err.Error()))
	}
}

func (p *Publisher) publish(subject string, payload any) {
	if p == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("failed to encode event payload",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return
	}
	// Fire and forget: event delivery is best effort and never blocks or
	// fails the pipeline.
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
	}
}

func (p *Publisher) instanceIDOrEmpty() string {
	if p == nil {
		return ""
	}
	return p.instanceID
}

// Connect dials NATS with sane reconnect settings. An empty URL disables
// messaging and returns a nil connection without error.
func Connect(url string, log *logger.Logger) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}
