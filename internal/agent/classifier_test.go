package agent

import (
	"testing"

	"github.com/lifeos/agent-api/internal/config"
)

func newTestClassifier() *Classifier {
	return NewClassifier(config.DefaultClassifierConfig())
}

func TestResolveMetadataBeatsContent(t *testing.T) {
	c := newTestClassifier()

	// Content screams study, but stored metadata is ground truth.
	res := c.Resolve(MessageMeta{
		MetadataAgentType: "wellness_agent",
		Content:           "study for your exam, review lecture notes and practice the quiz",
	})

	if res.Key != KeyWellness {
		t.Errorf("key = %q, want wellness", res.Key)
	}
	if res.Label != "Wellness Agent" {
		t.Errorf("label = %q, want the normalized stored type", res.Label)
	}
}

func TestResolveOrchestratorMetadataFallsThrough(t *testing.T) {
	c := newTestClassifier()

	res := c.Resolve(MessageMeta{
		MetadataAgentType: "orchestrator",
		Content:           "recipe with ingredients to cook for dinner tonight",
	})

	if res.Key != KeyMealPlanner {
		t.Errorf("key = %q, want meal_planner via keywords", res.Key)
	}
}

func TestResolveKeepsNonGenericLabel(t *testing.T) {
	c := newTestClassifier()

	res := c.Resolve(MessageMeta{
		Label:   "Meal Planner",
		Content: "short",
	})

	if res.Key != KeyMealPlanner {
		t.Errorf("key = %q, want meal_planner", res.Key)
	}
	if res.Label != "Meal Planner" {
		t.Errorf("label = %q, existing label must be kept as-is", res.Label)
	}
}

func TestResolveGenericLabelIgnored(t *testing.T) {
	c := newTestClassifier()

	for _, label := range []string{"Orchestrator", "agent", " AGENT "} {
		res := c.Resolve(MessageMeta{Label: label, Content: "too short"})
		if res.Key != KeyNone || res.Label != OrchestratorLabel {
			t.Errorf("Resolve(label=%q) = %+v, want orchestrator fallback", label, res)
		}
	}
}

func TestResolveKeywordScoring(t *testing.T) {
	c := newTestClassifier()

	res := c.Resolve(MessageMeta{
		Content: "Here's a recipe with fresh ingredients to cook for dinner",
	})

	if res.Key != KeyMealPlanner {
		t.Errorf("key = %q, want meal_planner", res.Key)
	}
	if res.Label != "Meal Planner" {
		t.Errorf("label = %q", res.Label)
	}
}

func TestResolveKeywordWinNeedsMargin(t *testing.T) {
	c := newTestClassifier()

	// Meal scores 4 (recipe, dinner), productivity 2 (task): clear winner.
	res := c.Resolve(MessageMeta{Content: "recipe and dinner with a task"})
	if res.Key != KeyMealPlanner {
		t.Errorf("key = %q, want meal_planner with margin", res.Key)
	}
}

func TestResolveKeywordTieIsIndeterminate(t *testing.T) {
	c := newTestClassifier()

	// Productivity (schedule, deadline) and study (exam, quiz) both score 4.
	res := c.Resolve(MessageMeta{Content: "schedule your exam and quiz deadline"})

	if res.Key != KeyNone {
		t.Errorf("key = %q, tie must be indeterminate", res.Key)
	}
	if res.Label != OrchestratorLabel {
		t.Errorf("label = %q, want orchestrator fallback", res.Label)
	}
}

func TestResolveKeywordBelowThreshold(t *testing.T) {
	c := newTestClassifier()

	// One keyword scores 2, below the minimum of 4.
	res := c.Resolve(MessageMeta{Content: "please schedule something for me soon"})

	if res.Key != KeyNone {
		t.Errorf("key = %q, single keyword must not classify", res.Key)
	}
}

func TestResolveShortContentNeverClassified(t *testing.T) {
	c := newTestClassifier()

	// Plenty of signal per character, but under the length floor.
	res := c.Resolve(MessageMeta{Content: "cook dinner"})

	if res.Key != KeyNone {
		t.Errorf("key = %q, short content must stay indeterminate", res.Key)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	c := newTestClassifier()
	meta := MessageMeta{Content: "recipe with fresh ingredients to cook for dinner tonight"}

	first := c.Resolve(meta)
	for i := 0; i < 10; i++ {
		if got := c.Resolve(meta); got != first {
			t.Fatalf("resolution changed between runs: %+v vs %+v", got, first)
		}
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		raw  string
		want Key
	}{
		{"meal_planner_agent", KeyMealPlanner},
		{"study_buddy", KeyStudy},
		{"shopping_agent", KeyShopping},
		{"task_agent", KeyProductivity},
		{"wellness_agent", KeyWellness},
		{"Productivity", KeyProductivity},
		{"something_else", KeyNone},
		// Shopping is checked before meal so a combined type routes there.
		{"shopping_meal_agent", KeyShopping},
	}
	for _, tc := range cases {
		if got := ParseKey(tc.raw); got != tc.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"wellness_agent": "Wellness Agent",
		"meal_planner":   "Meal Planner",
		"STUDY":          "Study",
	}
	for raw, want := range cases {
		if got := NormalizeLabel(raw); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLookupCoversAllKeys(t *testing.T) {
	for _, key := range Keys() {
		info, ok := Lookup(key)
		if !ok {
			t.Errorf("Lookup(%q) missing", key)
			continue
		}
		if info.Label == "" || info.Route == "" || info.Color == "" {
			t.Errorf("Lookup(%q) = %+v, want complete info", key, info)
		}
	}
	if _, ok := Lookup(KeyNone); ok {
		t.Error("Lookup(KeyNone) must not resolve")
	}
}
