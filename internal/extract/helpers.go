package extract

import (
	"strconv"
	"strings"
)

const maxTitleLength = 180

// Title finds the most likely title of a block of content.
//
// Preference order: first markdown heading, then a standalone bold line,
// then the first non-bullet, non-preamble line short enough to plausibly
// be a title. Returns "" when nothing qualifies.
func Title(content string) string {
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		if m := markdownHeadingPattern.FindStringSubmatch(line); m != nil {
			return cleanTitle(m[1])
		}
	}
	for _, line := range lines {
		if m := boldLinePattern.FindStringSubmatch(line); m != nil {
			return cleanTitle(m[1])
		}
	}
	for _, line := range lines {
		candidate := strings.TrimSpace(line)
		if candidate == "" || bulletItemPattern.MatchString(line) {
			continue
		}
		if len(candidate) > maxTitleLength || preamblePattern.MatchString(candidate) {
			continue
		}
		return cleanTitle(candidate)
	}
	return ""
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_#:~")
	return strings.TrimSpace(s)
}

// ListItems collects bullet and numbered list entries from text, in
// order, with markers stripped. Non-list lines are ignored.
func ListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if m := bulletItemPattern.FindStringSubmatch(line); m != nil {
			items = append(items, cleanTitle(m[1]))
		}
	}
	return items
}

// numberFields applies a pattern table to text and returns one value per
// field that matched. Each field's expressions are tried in order; the
// first capture that parses as a number wins.
func numberFields(text string, table []fieldPattern) map[string]float64 {
	out := make(map[string]float64)
	for _, fp := range table {
		for _, re := range fp.res {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
			if err != nil {
				continue
			}
			out[fp.field] = v
			break
		}
	}
	return out
}

// DurationMinutes parses the first duration phrase in text and returns it
// in minutes. Hour values under 10 are converted to minutes; anything
// else — minute values, or implausibly large "hour" figures that were
// almost certainly minutes already — is taken at face value. The second
// return is false when no duration phrase is present.
func DurationMinutes(text string) (int, bool) {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if isHourUnit(m[2]) && value < 10 {
		value *= 60
	}
	return int(value), true
}

// stringFields is numberFields' raw counterpart: it returns the first
// capture text per matching field without interpreting it.
func stringFields(text string, table []fieldPattern) map[string]string {
	out := make(map[string]string)
	for _, fp := range table {
		for _, re := range fp.res {
			if m := re.FindStringSubmatch(text); m != nil {
				out[fp.field] = strings.TrimSpace(m[1])
				break
			}
		}
	}
	return out
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Cut on a rune boundary so truncation never splits a UTF-8 sequence.
	cut := limit
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func isHourUnit(unit string) bool {
	switch strings.ToLower(unit) {
	case "hour", "hours", "hr", "hrs":
		return true
	}
	return false
}
