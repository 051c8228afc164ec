package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lifeos/agent-api/internal/agent"
	apierrors "github.com/lifeos/agent-api/internal/errors"
	"github.com/lifeos/agent-api/internal/events"
	"github.com/lifeos/agent-api/internal/logger"
	"github.com/lifeos/agent-api/internal/metrics"
	"github.com/lifeos/agent-api/internal/save"
	"github.com/lifeos/agent-api/internal/streaming"
)

// Store is the persistence surface the handlers need. *Service satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	EnsureSession(ctx context.Context, sessionID, title string) error
	AppendMessage(ctx context.Context, sessionID, role, content, agentType string) (string, error)
	ListSessions(ctx context.Context) ([]Session, error)
	ListMessages(ctx context.Context, sessionID string) ([]StoredMessage, error)
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

type Handler struct {
	service    Store
	streams    *streaming.Client
	classifier *agent.Classifier
	saver      *save.Orchestrator
	publisher  *events.Publisher
	logger     *logger.Logger
}

func NewHandler(service Store, streams *streaming.Client, classifier *agent.Classifier, saver *save.Orchestrator, publisher *events.Publisher, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		streams:    streams,
		classifier: classifier,
		saver:      saver,
		publisher:  publisher,
		logger:     log.WithComponent("chat-handler"),
	}
}

// RegisterRoutes mounts the chat endpoints on an API group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/chat/stream", h.StreamChat)
	api.GET("/my-sessions", h.ListSessions)
	api.GET("/sessions/:sessionId/messages", h.ListMessages)
	api.POST("/sessions/:sessionId/messages/:index/save", h.SaveMessage)
}

// StreamChat handles POST /api/v1/chat/stream.
//
// The orchestrator stream is relayed to the HTTP client as SSE while every
// event is also folded into an assembler, so when the turn finishes both
// sides of the conversation are persisted with the raw agent key the
// stream announced.
func (h *Handler) StreamChat(c *gin.Context) {
	var req StreamChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AbortWithBadRequest(c, "invalid request body", nil)
		return
	}

	ctx := c.Request.Context()
	stream, err := h.streams.OpenStream(ctx, streaming.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		apierrors.AbortWithBadRequest(c, "message must not be empty", nil)
		return
	}
	defer stream.Close()

	metrics.StreamsStarted.Inc()
	h.publisher.StreamStarted(req.SessionID)
	started := time.Now()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	asm := streaming.NewAssembler(req.SessionID)
	for ev := range stream.Events() {
		asm.Apply(ev)
		metrics.StreamEvents.WithLabelValues(string(ev.Type)).Inc()
		h.relay(c, ev)
	}
	metrics.StreamDuration.Observe(time.Since(started).Seconds())

	h.persistTurn(c, req, asm)
}

// relay writes one event back to the HTTP client in the same wire format
// the orchestrator uses.
func (h *Handler) relay(c *gin.Context, ev streaming.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

// persistTurn stores the finished turn. The session id announced by the
// stream wins; a brand-new conversation with a silent orchestrator still
// gets one locally so the turn is never lost.
func (h *Handler) persistTurn(c *gin.Context, req StreamChatRequest, asm *streaming.Assembler) {
	ctx := c.Request.Context()
	log := h.logger.WithContext(ctx)

	sessionID := asm.SessionID()
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if err := h.service.EnsureSession(ctx, sessionID, req.Message); err != nil {
		log.LogError(ctx, err, "failed to persist session")
		return
	}
	if _, err := h.service.AppendMessage(ctx, sessionID, string(streaming.RoleUser), req.Message, ""); err != nil {
		log.LogError(ctx, err, "failed to persist user message")
		return
	}

	msg := asm.Message()
	if _, err := h.service.AppendMessage(ctx, sessionID, string(streaming.RoleAgent), msg.Content, msg.RawAgentKey); err != nil {
		log.LogError(ctx, err, "failed to persist agent message")
		return
	}

	resolution := h.classifier.Resolve(agent.MessageMeta{
		MetadataAgentType: msg.RawAgentKey,
		Content:           msg.Content,
	})
	metrics.Classifications.WithLabelValues(string(resolution.Key)).Inc()
	h.publisher.AgentSelected(sessionID, string(resolution.Key))

	if failure := asm.Failure(); failure != "" {
		h.publisher.StreamFailed(sessionID, failure)
		return
	}
	h.publisher.StreamCompleted(sessionID, string(resolution.Key))
}

// ListSessions handles GET /api/v1/my-sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		apierrors.AbortWithInternal(c, "failed to list sessions", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// ListMessages handles GET /api/v1/sessions/:sessionId/messages.
//
// Stored messages run through the same classifier as live ones, so a
// conversation reloaded from history carries identical agent attribution.
func (h *Handler) ListMessages(c *gin.Context) {
	sessionID := c.Param("sessionId")

	exists, err := h.service.SessionExists(c.Request.Context(), sessionID)
	if err != nil {
		apierrors.AbortWithInternal(c, "failed to load session", nil)
		return
	}
	if !exists {
		apierrors.AbortWithNotFound(c, "session not found", nil)
		return
	}

	stored, err := h.service.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		apierrors.AbortWithInternal(c, "failed to list messages", nil)
		return
	}

	views := make([]MessageView, 0, len(stored))
	for i, m := range stored {
		view := MessageView{StoredMessage: m, Index: i}
		if m.Role == string(streaming.RoleAgent) {
			resolution := h.classifier.Resolve(agent.MessageMeta{
				MetadataAgentType: m.AgentType,
				Content:           m.Content,
			})
			view.AgentKey = string(resolution.Key)
			view.AgentLabel = resolution.Label
			view.SaveState = h.saver.Tracker().State(messageKey(sessionID, i)).String()
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"messages": views})
}

// SaveMessage handles POST /api/v1/sessions/:sessionId/messages/:index/save.
//
// The message is classified and routed to the records domain of its agent.
// A repeat save of an already saved (or currently saving) message is a
// no-op that reports the existing state.
func (h *Handler) SaveMessage(c *gin.Context) {
	sessionID := c.Param("sessionId")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		apierrors.AbortWithBadRequest(c, "invalid message index", nil)
		return
	}

	stored, err := h.service.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		apierrors.AbortWithInternal(c, "failed to load messages", nil)
		return
	}
	if index >= len(stored) {
		apierrors.AbortWithNotFound(c, "message not found", nil)
		return
	}
	msg := stored[index]
	if msg.Role != string(streaming.RoleAgent) {
		apierrors.AbortWithBadRequest(c, "only agent messages can be saved", nil)
		return
	}

	resolution := h.classifier.Resolve(agent.MessageMeta{
		MetadataAgentType: msg.AgentType,
		Content:           msg.Content,
	})

	result, err := h.saver.Save(c.Request.Context(), messageKey(sessionID, index), resolution.Key, msg.Content)
	if err != nil {
		metrics.Saves.WithLabelValues(result.Domain, "failed").Inc()
		if ve, ok := err.(*apierrors.ValidationError); ok {
			apierrors.Unprocessable(c, ve.Errors)
			return
		}
		apierrors.AbortWithInternal(c, "failed to save message", nil)
		return
	}
	if result.Skipped {
		metrics.Saves.WithLabelValues(result.Domain, "skipped").Inc()
		c.JSON(http.StatusOK, gin.H{
			"state":   h.saver.Tracker().State(messageKey(sessionID, index)).String(),
			"skipped": true,
		})
		return
	}

	metrics.Saves.WithLabelValues(result.Domain, "saved").Inc()
	h.publisher.RecordSaved(sessionID, result.Domain, string(resolution.Key))
	c.JSON(http.StatusOK, gin.H{
		"state":  save.StateSaved.String(),
		"domain": result.Domain,
	})
}

func messageKey(sessionID string, index int) string {
	return sessionID + ":" + strconv.Itoa(index)
}
