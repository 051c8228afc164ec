package save

import (
	"context"
	"log/slog"
	"time"

	"github.com/lifeos/agent-api/internal/agent"
	"github.com/lifeos/agent-api/internal/extract"
	"github.com/lifeos/agent-api/internal/logger"
)

// Stubbed in tests to pin the meal plan date.
var timeNow = time.Now

// Records endpoint paths per domain.
const (
	pathMealPlans          = "/api/v1/meal-plans"
	pathTasks              = "/api/v1/tasks"
	pathStudySessions      = "/api/v1/study-sessions"
	pathWellnessActivities = "/api/v1/wellness-activities"
)

// Result reports what a Save call did.
type Result struct {
	// Domain is the records domain the message was routed to, such as
	// "meal_plan" or "task".
	Domain string
	// Skipped is true when the save was a duplicate no-op: the message
	// was already saving or saved and no request was made.
	Skipped bool
}

// Orchestrator ties classification output to the records API.
type Orchestrator struct {
	records *RecordsClient
	tracker *Tracker
	logger  *logger.Logger
}

func NewOrchestrator(records *RecordsClient, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		records: records,
		tracker: NewTracker(),
		logger:  log.WithComponent("save-orchestrator"),
	}
}

// Tracker exposes save states for status queries.
func (o *Orchestrator) Tracker() *Tracker {
	return o.tracker
}

// Save extracts a draft for the message's agent and posts it. Exactly
// one of three things happens: the draft is persisted and the message
// becomes Saved; the request fails, the message returns to Idle, and the
// error is returned; or the message was already saving or saved and
// nothing is done. Extraction itself cannot fail — every agent routes to
// an extractor with defaults, and responses from agents with no
// dedicated extractor are captured as tasks.
func (o *Orchestrator) Save(ctx context.Context, messageKey string, key agent.Key, content string) (Result, error) {
	domain, path, draft := buildDraft(key, content)

	if !o.tracker.begin(messageKey) {
		o.logger.Debug("save skipped, message already saving or saved",
			slog.String("message_key", messageKey),
			slog.String("state", o.tracker.State(messageKey).String()))
		return Result{Domain: domain, Skipped: true}, nil
	}

	if err := o.records.Create(ctx, path, draft); err != nil {
		o.tracker.fail(messageKey, err)
		o.logger.Error("save failed",
			slog.String("message_key", messageKey),
			slog.String("domain", domain),
			slog.String("error", err.Error()))
		return Result{Domain: domain}, err
	}

	o.tracker.succeed(messageKey)
	o.logger.Info("message saved",
		slog.String("message_key", messageKey),
		slog.String("domain", domain),
		slog.String("agent", string(key)))
	return Result{Domain: domain}, nil
}

// buildDraft routes an agent key to its extractor and endpoint.
func buildDraft(key agent.Key, content string) (domain, path string, draft any) {
	switch key {
	case agent.KeyMealPlanner:
		meal := extract.Meal(content)
		meal.Date = timeNow().Format("2006-01-02")
		return "meal_plan", pathMealPlans, meal
	case agent.KeyStudy:
		return "study_session", pathStudySessions, extract.Study(content)
	case agent.KeyWellness:
		return "wellness_activity", pathWellnessActivities, extract.Wellness(content)
	default:
		// Productivity, shopping, and unclassified responses all land in
		// the task domain: a task loses the least information.
		return "task", pathTasks, extract.Task(content)
	}
}
