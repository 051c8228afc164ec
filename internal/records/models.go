// Package records is the persistence API for extracted domain objects:
// meal plans, tasks, study sessions, and wellness activities. Create
// requests are validated field by field; failures come back as a 422
// with per-field messages rather than a single opaque error.
package records

import "time"

// MealPlan is a stored meal plan row.
type MealPlan struct {
	ID           string           `json:"id"`
	SessionID    *string          `json:"session_id,omitempty"`
	Date         string           `json:"date"`
	MealType     string           `json:"meal_type"`
	MealName     string           `json:"meal_name"`
	Ingredients  []string         `json:"ingredients,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	Nutrition    map[string]any   `json:"nutritional_info,omitempty"`
	Preferences  map[string]any   `json:"preferences,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateMealPlanRequest is the POST /api/v1/meal-plans body.
type CreateMealPlanRequest struct {
	SessionID    *string        `json:"session_id,omitempty"`
	Date         string         `json:"date"`
	MealType     string         `json:"meal_type"`
	MealName     string         `json:"meal_name"`
	Ingredients  []string       `json:"ingredients,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	Nutrition    map[string]any `json:"nutritional_info,omitempty"`
	Preferences  map[string]any `json:"preferences,omitempty"`
}

// Task is a stored task row.
type Task struct {
	ID          string    `json:"id"`
	SessionID   *string   `json:"session_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Subtasks    []string  `json:"subtasks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTaskRequest is the POST /api/v1/tasks body.
type CreateTaskRequest struct {
	SessionID   *string  `json:"session_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Status      string   `json:"status,omitempty"`
	Subtasks    []string `json:"subtasks,omitempty"`
}

// StudySession is a stored study session row.
type StudySession struct {
	ID        string    `json:"id"`
	SessionID *string   `json:"session_id,omitempty"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic,omitempty"`
	Duration  int       `json:"duration"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStudySessionRequest is the POST /api/v1/study-sessions body.
type CreateStudySessionRequest struct {
	SessionID *string `json:"session_id,omitempty"`
	Subject   string  `json:"subject"`
	Topic     string  `json:"topic,omitempty"`
	Duration  int     `json:"duration"`
	Notes     string  `json:"notes,omitempty"`
}

// WellnessActivity is a stored wellness activity row.
type WellnessActivity struct {
	ID           string    `json:"id"`
	SessionID    *string   `json:"session_id,omitempty"`
	ActivityType string    `json:"activity_type"`
	Duration     *int      `json:"duration,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateWellnessActivityRequest is the POST /api/v1/wellness-activities body.
type CreateWellnessActivityRequest struct {
	SessionID    *string    `json:"session_id,omitempty"`
	ActivityType string     `json:"activity_type"`
	Duration     *int       `json:"duration,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	RecordedAt   *time.Time `json:"recorded_at,omitempty"`
}
