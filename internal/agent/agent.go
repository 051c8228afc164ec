package agent

import "strings"

// Key identifies a backend domain agent.
type Key string

const (
	KeyMealPlanner  Key = "meal_planner"
	KeyProductivity Key = "productivity"
	KeyStudy        Key = "study"
	KeyWellness     Key = "wellness"
	KeyShopping     Key = "shopping"

	// KeyNone means no specific domain agent could be resolved.
	KeyNone Key = ""
)

// OrchestratorLabel is the generic display label used when classification
// is indeterminate.
const OrchestratorLabel = "Orchestrator"

// Info carries the fixed presentation attributes of an agent.
type Info struct {
	Label string
	Route string
	Color string
	Icon  string
}

var infoTable = map[Key]Info{
	KeyMealPlanner:  {Label: "Meal Planner", Route: "/meals", Color: "emerald", Icon: "utensils"},
	KeyProductivity: {Label: "Productivity", Route: "/productivity", Color: "blue", Icon: "check-square"},
	KeyStudy:        {Label: "Study Buddy", Route: "/study", Color: "violet", Icon: "book-open"},
	KeyWellness:     {Label: "Wellness", Route: "/wellness", Color: "rose", Icon: "heart"},
	KeyShopping:     {Label: "Shopping", Route: "/shopping", Color: "amber", Icon: "shopping-cart"},
}

// Lookup returns the presentation info for a key.
func Lookup(key Key) (Info, bool) {
	info, ok := infoTable[key]
	return info, ok
}

// Keys returns the closed set of domain agent keys.
func Keys() []Key {
	return []Key{KeyMealPlanner, KeyProductivity, KeyStudy, KeyWellness, KeyShopping}
}

// ParseKey maps a raw backend agent type string (e.g. "meal_planner_agent",
// "study_buddy") to a domain key. Matching mirrors the backend's own save
// routing: substring checks in a fixed order.
func ParseKey(raw string) Key {
	lowered := strings.ToLower(raw)

	switch {
	case strings.Contains(lowered, "shopping"):
		return KeyShopping
	case strings.Contains(lowered, "meal") || strings.Contains(lowered, "planner"):
		return KeyMealPlanner
	case strings.Contains(lowered, "productivity") || strings.Contains(lowered, "task"):
		return KeyProductivity
	case strings.Contains(lowered, "study") || strings.Contains(lowered, "buddy"):
		return KeyStudy
	case strings.Contains(lowered, "wellness"):
		return KeyWellness
	default:
		return KeyNone
	}
}

// NormalizeLabel turns a raw agent type into a display label:
// underscores become spaces, each word is title-cased, and a trailing
// "agent" suffix is kept ("wellness_agent" -> "Wellness Agent").
func NormalizeLabel(raw string) string {
	words := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// IsGenericLabel reports whether a display label is one of the reserved
// generic labels that carry no domain signal.
func IsGenericLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "orchestrator", "agent":
		return true
	default:
		return false
	}
}

// isOrchestratorType reports whether a raw agent type names the generic
// orchestrator rather than a domain agent.
func isOrchestratorType(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "orchestrator")
}
