package extract

import "strings"

// TaskDraft is the payload shape accepted by the tasks records API.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Subtasks    []string `json:"subtasks,omitempty"`
}

// Task builds a task draft from response content. Priority is read from
// urgency cues in the text (urgent > high, default medium); status always
// starts at todo. The full content becomes the description verbatim so
// nothing is lost even when the text has no structure.
func Task(content string) TaskDraft {
	return TaskDraft{
		Title:       taskTitle(content),
		Description: strings.TrimSpace(content),
		Priority:    detectPriority(content),
		Status:      "todo",
		Subtasks:    distinctItems(content),
	}
}

func taskTitle(content string) string {
	if title := Title(content); title != "" {
		return title
	}
	return "New Task"
}

func detectPriority(content string) string {
	switch {
	case urgentCuePattern.MatchString(content):
		return "urgent"
	case highCuePattern.MatchString(content):
		return "high"
	}
	return "medium"
}

// distinctItems surfaces sub-items only when the content lists more than
// one distinct thing to do. A lone bullet is just formatting, not a
// breakdown worth exposing.
func distinctItems(content string) []string {
	items := ListItems(content)
	seen := make(map[string]bool, len(items))
	distinct := items[:0]
	for _, item := range items {
		norm := strings.ToLower(strings.TrimSpace(item))
		if seen[norm] {
			continue
		}
		seen[norm] = true
		distinct = append(distinct, item)
	}
	if len(distinct) < 2 {
		return nil
	}
	return distinct
}
