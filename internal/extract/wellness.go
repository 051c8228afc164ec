package extract

import (
	"regexp"
	"strings"
	"time"
)

// WellnessDraft is the payload shape accepted by the wellness API.
type WellnessDraft struct {
	ActivityType string    `json:"activity_type"`
	Duration     *int      `json:"duration,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Stubbed in tests to pin RecordedAt.
var timeNow = time.Now

// Checked in priority order; the first category with a keyword hit decides
// the type, so "a workout to improve your sleep" logs as sleep. Anything
// without a match is generic exercise.
var wellnessActivityPatterns = []struct {
	activity string
	re       *regexp.Regexp
}{
	{"meditation", regexp.MustCompile(`(?i)\b(?:meditat\w*|mindfulness|breathing exercise)`)},
	{"sleep", regexp.MustCompile(`(?i)\b(?:sleep|nap|bedtime|rest(?:ing)?)\b`)},
	{"hydration", regexp.MustCompile(`(?i)\b(?:hydrat\w*|water)\b`)},
	{"mood", regexp.MustCompile(`(?i)\b(?:mood|mental(?:\s+health)?|stress|anxiety|journal\w*)\b`)},
}

// Wellness builds a wellness-activity draft from response content. The
// activity type falls back to "exercise" and duration stays unset when no
// duration phrase is present — unlike study sessions, an untimed wellness
// entry is meaningful on its own. Notes carry the full content.
func Wellness(content string) WellnessDraft {
	draft := WellnessDraft{
		ActivityType: "exercise",
		Notes:        strings.TrimSpace(content),
		RecordedAt:   timeNow().UTC(),
	}

	for _, p := range wellnessActivityPatterns {
		if p.re.MatchString(content) {
			draft.ActivityType = p.activity
			break
		}
	}

	if minutes, ok := DurationMinutes(content); ok && minutes > 0 {
		draft.Duration = intPtr(minutes)
	}

	return draft
}
