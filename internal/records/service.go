package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lifeos/agent-api/internal/logger"
)

const listLimit = 100

// Service persists and lists domain records in PostgreSQL.
type Service struct {
	db     *sql.DB
	logger *logger.Logger
}

func NewService(db *sql.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log.WithComponent("records-service"),
	}
}

// CreateMealPlan inserts a meal plan. An empty date defaults to today and
// an empty meal type to dinner, mirroring the extractor defaults.
func (s *Service) CreateMealPlan(ctx context.Context, req *CreateMealPlanRequest) (*MealPlan, error) {
	plan := &MealPlan{
		ID:           uuid.New().String(),
		SessionID:    req.SessionID,
		Date:         req.Date,
		MealType:     req.MealType,
		MealName:     req.MealName,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Nutrition:    req.Nutrition,
		Preferences:  req.Preferences,
		CreatedAt:    time.Now().UTC(),
	}
	if plan.Date == "" {
		plan.Date = time.Now().Format("2006-01-02")
	}
	if plan.MealType == "" {
		plan.MealType = "dinner"
	}

	ingredients, err := marshalNullable(plan.Ingredients)
	if err != nil {
		return nil, err
	}
	nutrition, err := marshalNullable(plan.Nutrition)
	if err != nil {
		return nil, err
	}
	preferences, err := marshalNullable(plan.Preferences)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO meal_plans (id, session_id, date, meal_type, meal_name, ingredients, instructions, nutritional_info, preferences, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := s.db.ExecContext(ctx, query,
		plan.ID, plan.SessionID, plan.Date, plan.MealType, plan.MealName,
		ingredients, plan.Instructions, nutrition, preferences, plan.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert meal plan: %w", err)
	}

	s.logger.WithContext(ctx).Info("meal plan created",
		slog.String("id", plan.ID),
		slog.String("meal_name", plan.MealName))
	return plan, nil
}

// ListMealPlans returns the most recent meal plans, newest first.
func (s *Service) ListMealPlans(ctx context.Context) ([]MealPlan, error) {
	query := `
		SELECT id, session_id, to_char(date, 'YYYY-MM-DD'), meal_type, meal_name, ingredients, instructions, nutritional_info, preferences, created_at
		FROM meal_plans
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	plans := []MealPlan{}
	for rows.Next() {
		var p MealPlan
		var ingredients, nutrition, preferences []byte
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Date, &p.MealType, &p.MealName,
			&ingredients, &p.Instructions, &nutrition, &preferences, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		if err := unmarshalNullable(ingredients, &p.Ingredients); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(nutrition, &p.Nutrition); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(preferences, &p.Preferences); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// CreateTask inserts a task. Priority defaults to medium and status to
// todo when omitted.
func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest) (*Task, error) {
	task := &Task{
		ID:          uuid.New().String(),
		SessionID:   req.SessionID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Subtasks:    req.Subtasks,
		CreatedAt:   time.Now().UTC(),
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if task.Status == "" {
		task.Status = "todo"
	}

	subtasks, err := marshalNullable(task.Subtasks)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tasks (id, session_id, title, description, priority, status, subtasks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := s.db.ExecContext(ctx, query,
		task.ID, task.SessionID, task.Title, task.Description,
		task.Priority, task.Status, subtasks, task.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	s.logger.WithContext(ctx).Info("task created",
		slog.String("id", task.ID),
		slog.String("priority", task.Priority))
	return task, nil
}

// ListTasks returns the most recent tasks, newest first.
func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	query := `
		SELECT id, session_id, title, description, priority, status, subtasks, created_at
		FROM tasks
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var subtasks []byte
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Title, &t.Description,
			&t.Priority, &t.Status, &subtasks, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if err := unmarshalNullable(subtasks, &t.Subtasks); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateStudySession inserts a study session.
func (s *Service) CreateStudySession(ctx context.Context, req *CreateStudySessionRequest) (*StudySession, error) {
	session := &StudySession{
		ID:        uuid.New().String(),
		SessionID: req.SessionID,
		Subject:   req.Subject,
		Topic:     req.Topic,
		Duration:  req.Duration,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO study_sessions (id, session_id, subject, topic, duration, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.ExecContext(ctx, query,
		session.ID, session.SessionID, session.Subject, session.Topic,
		session.Duration, session.Notes, session.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert study session: %w", err)
	}

	s.logger.WithContext(ctx).Info("study session created",
		slog.String("id", session.ID),
		slog.String("subject", session.Subject))
	return session, nil
}

// ListStudySessions returns the most recent study sessions, newest first.
func (s *Service) ListStudySessions(ctx context.Context) ([]StudySession, error) {
	query := `
		SELECT id, session_id, subject, topic, duration, notes, created_at
		FROM study_sessions
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []StudySession{}
	for rows.Next() {
		var ss StudySession
		if err := rows.Scan(&ss.ID, &ss.SessionID, &ss.Subject, &ss.Topic,
			&ss.Duration, &ss.Notes, &ss.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

// CreateWellnessActivity inserts a wellness activity. RecordedAt defaults
// to now when the client does not supply it.
func (s *Service) CreateWellnessActivity(ctx context.Context, req *CreateWellnessActivityRequest) (*WellnessActivity, error) {
	activity := &WellnessActivity{
		ID:           uuid.New().String(),
		SessionID:    req.SessionID,
		ActivityType: req.ActivityType,
		Duration:     req.Duration,
		Notes:        req.Notes,
		RecordedAt:   time.Now().UTC(),
		CreatedAt:    time.Now().UTC(),
	}
	if req.RecordedAt != nil {
		activity.RecordedAt = req.RecordedAt.UTC()
	}

	query := `
		INSERT INTO wellness_activities (id, session_id, activity_type, duration, notes, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.ExecContext(ctx, query,
		activity.ID, activity.SessionID, activity.ActivityType, activity.Duration,
		activity.Notes, activity.RecordedAt, activity.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert wellness activity: %w", err)
	}

	s.logger.WithContext(ctx).Info("wellness activity created",
		slog.String("id", activity.ID),
		slog.String("activity_type", activity.ActivityType))
	return activity, nil
}

// ListWellnessActivities returns the most recent activities, newest first.
func (s *Service) ListWellnessActivities(ctx context.Context) ([]WellnessActivity, error) {
	query := `
		SELECT id, session_id, activity_type, duration, notes, recorded_at, created_at
		FROM wellness_activities
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wellness activities: %w", err)
	}
	defer rows.Close()

	activities := []WellnessActivity{}
	for rows.Next() {
		var a WellnessActivity
		if err := rows.Scan(&a.ID, &a.SessionID, &a.ActivityType, &a.Duration,
			&a.Notes, &a.RecordedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wellness activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// marshalNullable encodes a value as JSONB, mapping empty slices and maps
// to SQL NULL instead of "null" text.
func marshalNullable(v any) ([]byte, error) {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	case map[string]any:
		if len(t) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSONB value: %w", err)
	}
	return data, nil
}

func unmarshalNullable(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode JSONB value: %w", err)
	}
	return nil
}
