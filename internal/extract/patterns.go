package extract

import "regexp"

// sectionHeadingPatterns maps heading lines to canonical section keys.
// A heading is a line containing only the keyword, optionally dressed in
// markdown (#, **, trailing colon). Lines that carry data after the
// keyword ("Calories: 420") deliberately do not match; they stay in the
// surrounding section and are picked up by the field patterns instead.
var sectionHeadingPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{SectionIngredients, headingLine(`ingredients|what you'?ll need|shopping list`)},
	{SectionInstructions, headingLine(`instructions|directions|steps|method|preparation|how to make it?`)},
	{SectionNutrition, headingLine(`nutrition(?:al)?(?:\s+(?:info|information|facts|breakdown))?|macros`)},
	{SectionTips, headingLine(`(?:pro\s+)?tips|notes|suggestions|serving suggestions?`)},
	{SectionServings, headingLine(`servings?|serves|yield`)},
}

func headingLine(keywords string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?\s*(?:` + keywords + `)\s*:?\s*(?:\*\*)?\s*$`)
}

var (
	// Markdown structure.
	markdownHeadingPattern = regexp.MustCompile(`^\s*#{1,6}\s+(.+?)\s*$`)
	boldLinePattern        = regexp.MustCompile(`^\s*\*\*([^*]+)\*\*\s*$`)
	bulletItemPattern      = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.*\S)\s*$`)

	// Conversational preamble lines that must never become a title.
	preamblePattern = regexp.MustCompile(`(?i)^(?:here'?s|here is|here are|sure|okay|ok\b|certainly|absolutely|of course|great|i'?ve put together|i'?d suggest|let'?s|for (?:a|your|tonight|today))`)

	// Durations: value plus unit anywhere in a phrase.
	durationPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(hours?|hrs?|minutes?|mins?)\b`)

	// Priority cues for the task extractor, checked in precedence order.
	// Only explicit urgency words promote a task; ordinary scheduling talk
	// ("today", "tomorrow") stays at the medium default.
	urgentCuePattern = regexp.MustCompile(`(?i)\burgent\b`)
	highCuePattern   = regexp.MustCompile(`(?i)\bhigh[\s\-]priority\b`)

	// Fallback ingredient scan for content whose "ingredients:" header never
	// became a section boundary: capture the lines that follow it, up to the
	// next blank line.
	ingredientBlockPattern = regexp.MustCompile(`(?is)\bingredients[^\n]*\n(.+?)(?:\n\s*\n|\z)`)
)

// fieldPattern binds a payload field name to the expressions that can
// yield its value. The first submatch of the first matching expression
// wins.
type fieldPattern struct {
	field string
	res   []*regexp.Regexp
}

// Nutrition values are stated either label-first ("Protein: 38g") or
// amount-first ("38g of protein"); both spellings are covered per field.
var nutritionFieldPatterns = []fieldPattern{
	{"calories", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcalories?\s*[:\-]?\s*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:kcal|calories?)\b`),
	}},
	{"protein", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bprotein\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*g?\b`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*g(?:rams)?\s*(?:of\s+)?protein\b`),
	}},
	{"carbs", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcarb(?:ohydrate)?s?\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*g?\b`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*g(?:rams)?\s*(?:of\s+)?carb(?:ohydrate)?s?\b`),
	}},
	{"fat", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfat\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*g?\b`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*g(?:rams)?\s*(?:of\s+)?fat\b`),
	}},
	{"fiber", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfib(?:er|re)\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*g?\b`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*g(?:rams)?\s*(?:of\s+)?fib(?:er|re)\b`),
	}},
}

// Meal preference timings ("Prep time: 15 minutes", "Cook time: 1 hour").
var timeFieldPatterns = []fieldPattern{
	{"prep_time", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bprep(?:aration)?\s*time\s*[:\-]?\s*(\d+(?:\.\d+)?\s*(?:hours?|hrs?|minutes?|mins?))`),
	}},
	{"cook_time", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcook(?:ing)?\s*time\s*[:\-]?\s*(\d+(?:\.\d+)?\s*(?:hours?|hrs?|minutes?|mins?))`),
	}},
	{"total_time", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btotal\s*time\s*[:\-]?\s*(\d+(?:\.\d+)?\s*(?:hours?|hrs?|minutes?|mins?))`),
	}},
}

var servingsPattern = regexp.MustCompile(`(?i)\b(?:servings?|serves|yields?)\s*[:\-]?\s*(\d+)\b`)

var mealTypePatterns = []struct {
	mealType string
	re       *regexp.Regexp
}{
	{"breakfast", regexp.MustCompile(`(?i)\b(?:breakfast|brunch)\b`)},
	{"lunch", regexp.MustCompile(`(?i)\blunch\b`)},
	{"snack", regexp.MustCompile(`(?i)\bsnack\b`)},
	{"dinner", regexp.MustCompile(`(?i)\b(?:dinner|supper)\b`)},
}
