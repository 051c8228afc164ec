package extract

import (
	"regexp"
	"strings"
)

// StudyDraft is the payload shape accepted by the study-sessions API.
type StudyDraft struct {
	Subject  string `json:"subject"`
	Topic    string `json:"topic,omitempty"`
	Duration int    `json:"duration"`
	Notes    string `json:"notes,omitempty"`
}

const (
	defaultStudyDuration  = 60
	maxStudySubjectLength = 200
)

// A labeled line ("Topic: cell division", "Focus: derivatives") is the
// strongest subject signal and wins over the extracted title.
var studyLabelPattern = regexp.MustCompile(`(?i)\b(?:topic|subject|focus)\s*[:\-]\s*([^\n]{2,200})`)

// Study builds a study-session draft from response content. Duration
// defaults to 60 minutes when no duration phrase appears; subject falls
// back to the title and then to "Study Session", unless a labeled
// topic/subject/focus line overrides it. Notes carry the full content.
func Study(content string) StudyDraft {
	subject := Title(content)
	if subject == "" {
		subject = "Study Session"
	}

	topic := ""
	if m := studyLabelPattern.FindStringSubmatch(content); m != nil {
		topic = cleanTitle(m[1])
		if topic != "" {
			subject = topic
		}
	}
	if len(subject) > maxStudySubjectLength {
		subject = truncate(subject, maxStudySubjectLength)
	}

	duration, ok := DurationMinutes(content)
	if !ok || duration <= 0 {
		duration = defaultStudyDuration
	}

	return StudyDraft{
		Subject:  subject,
		Topic:    topic,
		Duration: duration,
		Notes:    strings.TrimSpace(content),
	}
}
