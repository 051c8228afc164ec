package records

import (
	"strings"
	"time"
)

var (
	validMealTypes  = []string{"breakfast", "lunch", "dinner", "snack"}
	validPriorities = []string{"low", "medium", "high", "urgent"}
	validStatuses   = []string{"todo", "pending", "in_progress", "completed"}
)

// fieldErrors accumulates per-field validation messages in the 422 shape.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) empty() bool { return len(f) == 0 }

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (r *CreateMealPlanRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(r.MealName) == "" {
		errs.add("meal_name", "is required")
	}
	if r.MealType != "" && !oneOf(r.MealType, validMealTypes) {
		errs.add("meal_type", "must be one of "+strings.Join(validMealTypes, ", "))
	}
	if r.Date != "" {
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			errs.add("date", "must be a date in YYYY-MM-DD format")
		}
	}
	return errs
}

func (r *CreateTaskRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		errs.add("title", "is required")
	}
	if r.Priority != "" && !oneOf(r.Priority, validPriorities) {
		errs.add("priority", "must be one of "+strings.Join(validPriorities, ", "))
	}
	if r.Status != "" && !oneOf(r.Status, validStatuses) {
		errs.add("status", "must be one of "+strings.Join(validStatuses, ", "))
	}
	return errs
}

func (r *CreateStudySessionRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(r.Subject) == "" {
		errs.add("subject", "is required")
	}
	if r.Duration <= 0 {
		errs.add("duration", "must be a positive number of minutes")
	}
	return errs
}

func (r *CreateWellnessActivityRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(r.ActivityType) == "" {
		errs.add("activity_type", "is required")
	}
	if r.Duration != nil && *r.Duration <= 0 {
		errs.add("duration", "must be a positive number of minutes")
	}
	return errs
}
