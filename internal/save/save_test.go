package save

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lifeos/agent-api/internal/agent"
	apierrors "github.com/lifeos/agent-api/internal/errors"
	"github.com/lifeos/agent-api/internal/logger"
)

func discardLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newTestOrchestrator(t *testing.T, handler http.HandlerFunc) (*Orchestrator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOrchestrator(NewRecordsClient(srv.URL, discardLogger()), discardLogger()), srv
}

func TestSaveRoutesMealPlan(t *testing.T) {
	timeNow = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	var gotPath string
	var gotBody map[string]any
	orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	res, err := orch.Save(context.Background(), "s1:0", agent.KeyMealPlanner, "## Grilled Salmon\n\nIngredients:\n- 2 fillets salmon")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if res.Domain != "meal_plan" || res.Skipped {
		t.Errorf("Result = %+v, want meal_plan not skipped", res)
	}
	if gotPath != "/api/v1/meal-plans" {
		t.Errorf("posted to %q, want /api/v1/meal-plans", gotPath)
	}
	if gotBody["meal_name"] != "Grilled Salmon" {
		t.Errorf("meal_name = %v", gotBody["meal_name"])
	}
	if gotBody["date"] != "2026-03-14" {
		t.Errorf("date = %v, want today's date set by the orchestrator", gotBody["date"])
	}
}

func TestSaveRoutesUnclassifiedToTasks(t *testing.T) {
	for _, key := range []agent.Key{agent.KeyProductivity, agent.KeyShopping, agent.KeyNone} {
		var gotPath string
		orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
		})
		if _, err := orch.Save(context.Background(), "s1:0", key, "Pick up groceries after work"); err != nil {
			t.Fatalf("Save(%q) error: %v", key, err)
		}
		if gotPath != "/api/v1/tasks" {
			t.Errorf("Save(%q) posted to %q, want /api/v1/tasks", key, gotPath)
		}
	}
}

func TestSaveDuplicateIsSilentNoOp(t *testing.T) {
	var calls atomic.Int32
	orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})

	if _, err := orch.Save(context.Background(), "s1:3", agent.KeyWellness, "20 minute yoga session"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	res, err := orch.Save(context.Background(), "s1:3", agent.KeyWellness, "20 minute yoga session")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if !res.Skipped {
		t.Error("second save should be skipped")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("records API called %d times, want 1", n)
	}
	if got := orch.Tracker().State("s1:3"); got != StateSaved {
		t.Errorf("state = %v, want saved", got)
	}
}

func TestSaveFailureRevertsToIdleAndAllowsRetry(t *testing.T) {
	var calls atomic.Int32
	orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	if _, err := orch.Save(context.Background(), "s1:0", agent.KeyStudy, "Study plan for Biology"); err == nil {
		t.Fatal("expected first save to fail")
	}
	if got := orch.Tracker().State("s1:0"); got != StateIdle {
		t.Fatalf("state after failure = %v, want idle", got)
	}
	if orch.Tracker().LastError("s1:0") == nil {
		t.Error("expected LastError to be recorded")
	}

	if _, err := orch.Save(context.Background(), "s1:0", agent.KeyStudy, "Study plan for Biology"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := orch.Tracker().State("s1:0"); got != StateSaved {
		t.Errorf("state after retry = %v, want saved", got)
	}
	if orch.Tracker().LastError("s1:0") != nil {
		t.Error("LastError should clear on success")
	}
}

func TestSaveValidationErrorSurfacesFields(t *testing.T) {
	orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":{"title":["is required"]}}`)
	})

	_, err := orch.Save(context.Background(), "s1:0", agent.KeyProductivity, "x")
	if err == nil {
		t.Fatal("expected validation error")
	}
	ve, ok := err.(*apierrors.ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if !strings.Contains(ve.Error(), "title: is required") {
		t.Errorf("error = %q, want field message", ve.Error())
	}
}

func TestSaveConcurrentRequestsSingleFlight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	orch, _ := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.WriteHeader(http.StatusCreated)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orch.Save(context.Background(), "s1:7", agent.KeyWellness, "morning stretch routine")
		}()
	}

	// Give the racing goroutines time to hit begin before releasing the
	// in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("records API called %d times for concurrent saves, want 1", n)
	}
}

func TestTrackerStateStrings(t *testing.T) {
	if StateIdle.String() != "idle" || StateSaving.String() != "saving" || StateSaved.String() != "saved" {
		t.Error("unexpected State string values")
	}
}
