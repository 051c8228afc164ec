package records

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lifeos/agent-api/internal/logger"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	handler := NewHandler(NewService(nil, log))

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeFieldErrors(t *testing.T, body []byte) map[string][]string {
	t.Helper()
	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode 422 body: %v", err)
	}
	return resp.Errors
}

func TestCreateMealPlanMissingName(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/meal-plans", `{"meal_type":"dinner"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	errs := decodeFieldErrors(t, w.Body.Bytes())
	if len(errs["meal_name"]) == 0 {
		t.Errorf("errors = %v, want meal_name message", errs)
	}
}

func TestCreateMealPlanInvalidTypeAndDate(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/meal-plans", `{"meal_name":"Pasta","meal_type":"midnight","date":"14-03-2026"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	errs := decodeFieldErrors(t, w.Body.Bytes())
	if len(errs["meal_type"]) == 0 || len(errs["date"]) == 0 {
		t.Errorf("errors = %v, want meal_type and date messages", errs)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/tasks", `{"title":"  ","priority":"whenever","status":"paused"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	errs := decodeFieldErrors(t, w.Body.Bytes())
	for _, field := range []string{"title", "priority", "status"} {
		if len(errs[field]) == 0 {
			t.Errorf("errors = %v, want %s message", errs, field)
		}
	}
}

func TestCreateStudySessionValidation(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/study-sessions", `{"subject":"","duration":0}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	errs := decodeFieldErrors(t, w.Body.Bytes())
	if len(errs["subject"]) == 0 || len(errs["duration"]) == 0 {
		t.Errorf("errors = %v, want subject and duration messages", errs)
	}
}

func TestCreateWellnessActivityValidation(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/wellness-activities", `{"activity_type":"","duration":-5}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	errs := decodeFieldErrors(t, w.Body.Bytes())
	if len(errs["activity_type"]) == 0 || len(errs["duration"]) == 0 {
		t.Errorf("errors = %v, want activity_type and duration messages", errs)
	}
}

func TestCreateMealPlanMalformedBody(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/api/v1/meal-plans", `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestValidateAcceptsCompleteRequests(t *testing.T) {
	meal := CreateMealPlanRequest{MealName: "Grilled Salmon", MealType: "dinner", Date: "2026-03-14"}
	if errs := meal.validate(); !errs.empty() {
		t.Errorf("meal plan errors = %v, want none", errs)
	}
	task := CreateTaskRequest{Title: "Finish report", Priority: "urgent", Status: "todo"}
	if errs := task.validate(); !errs.empty() {
		t.Errorf("task errors = %v, want none", errs)
	}
	study := CreateStudySessionRequest{Subject: "Biology", Duration: 45}
	if errs := study.validate(); !errs.empty() {
		t.Errorf("study errors = %v, want none", errs)
	}
	wellness := CreateWellnessActivityRequest{ActivityType: "yoga"}
	if errs := wellness.validate(); !errs.empty() {
		t.Errorf("wellness errors = %v, want none", errs)
	}
}
