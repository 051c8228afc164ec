// Package extract turns free-form agent response text into structured
// domain drafts. Everything in it is stateless: every function takes all
// of its inputs as parameters and extraction never fails — missing data
// degrades to a documented default instead.
package extract

import "strings"

// Canonical section keys produced by Segment.
const (
	SectionIntro        = "_intro"
	SectionIngredients  = "ingredients"
	SectionInstructions = "instructions"
	SectionNutrition    = "nutrition"
	SectionTips         = "tips"
	SectionServings     = "servings"
)

// Segment splits content into named logical sections.
//
// The scan is line by line with a current-section pointer starting at
// _intro. A line matching a heading pattern flushes the accumulated lines
// into the previous section, switches the pointer, and is itself consumed —
// heading lines never appear in any section's text. Every other line lands
// in exactly one section. _intro is always present, possibly empty.
func Segment(content string) map[string]string {
	sections := map[string]string{
		SectionIntro: "",
	}

	current := SectionIntro
	var acc []string

	flush := func() {
		text := strings.TrimRight(strings.Join(acc, "\n"), "\n")
		if existing, ok := sections[current]; ok && existing != "" {
			// Same heading appeared twice: append rather than overwrite,
			// keeping the no-line-lost guarantee.
			sections[current] = existing + "\n" + text
		} else {
			sections[current] = text
		}
		acc = acc[:0]
	}

	for _, line := range strings.Split(content, "\n") {
		if key, ok := matchSectionHeading(line); ok {
			flush()
			current = key
			continue
		}
		acc = append(acc, line)
	}
	flush()

	return sections
}

// matchSectionHeading reports whether a line is a section boundary and,
// if so, which canonical key it maps to. Patterns are tried in order.
func matchSectionHeading(line string) (string, bool) {
	for _, p := range sectionHeadingPatterns {
		if p.re.MatchString(line) {
			return p.key, true
		}
	}
	return "", false
}
