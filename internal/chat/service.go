package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/agent-api/internal/logger"
)

const sessionTitleLimit = 80

// Service persists chat sessions and messages.
type Service struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewService(db *sql.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log.WithComponent("chat-service"),
	}
}

// EnsureSession creates the session row if it does not exist and bumps
// its last activity. A new session takes its title from the opening user
// message.
func (s *Service) EnsureSession(ctx context.Context, sessionID, title string) error {
	if len(title) > sessionTitleLimit {
		title = title[:sessionTitleLimit]
	}

	query := `
		INSERT INTO agent_sessions (session_id, title, created_at, last_activity)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (session_id) DO UPDATE SET last_activity = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, sessionID, title); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// AppendMessage stores one turn and returns its id.
func (s *Service) AppendMessage(ctx context.Context, sessionID, role, content, agentType string) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO agent_messages (id, session_id, role, content, agent_type, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := s.db.ExecContext(ctx, query, id, sessionID, role, content, agentType); err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// ListSessions returns sessions ordered by most recent activity.
func (s *Service) ListSessions(ctx context.Context) ([]Session, error) {
	query := `
		SELECT session_id, title, created_at, last_activity
		FROM agent_sessions
		ORDER BY last_activity DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.SessionID, &sess.Title, &sess.CreatedAt, &sess.LastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ListMessages returns a session's messages in conversation order.
func (s *Service) ListMessages(ctx context.Context, sessionID string) ([]StoredMessage, error) {
	query := `
		SELECT id, session_id, role, content, agent_type, created_at
		FROM agent_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []StoredMessage{}
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.AgentType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// SessionExists reports whether a session id is known.
func (s *Service) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM agent_sessions WHERE session_id = $1)`, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return exists, nil
}

// DeleteStale removes sessions with no activity inside the retention
// window. Messages go with them via the FK cascade.
func (s *Service) DeleteStale(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM agent_sessions WHERE last_activity < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("stale sessions deleted",
			slog.Int64("count", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}
