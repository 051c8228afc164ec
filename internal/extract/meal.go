package extract

import "strings"

// MealDraft is the payload shape accepted by the meal-plans records API.
type MealDraft struct {
	Date         string           `json:"date,omitempty"`
	MealType     string           `json:"meal_type"`
	MealName     string           `json:"meal_name"`
	Ingredients  []string         `json:"ingredients,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	Nutrition    *NutritionInfo   `json:"nutritional_info,omitempty"`
	Preferences  *MealPreferences `json:"preferences,omitempty"`
}

// NutritionInfo carries only the values actually stated in the content.
type NutritionInfo struct {
	Calories *int     `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

// MealPreferences holds optional timing and serving details.
type MealPreferences struct {
	PrepTimeMinutes  *int   `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes  *int   `json:"cook_time_minutes,omitempty"`
	TotalTimeMinutes *int   `json:"total_time_minutes,omitempty"`
	Servings         *int   `json:"servings,omitempty"`
	Tips             string `json:"tips,omitempty"`
}

// Meal builds a meal draft from response content. It never fails: a
// nameless recipe becomes "Meal Plan", and absent sections simply leave
// their fields unset.
func Meal(content string) MealDraft {
	sections := Segment(content)

	draft := MealDraft{
		MealType: detectMealType(content),
		MealName: Title(content),
	}
	if draft.MealName == "" {
		draft.MealName = "Meal Plan"
	}

	draft.Ingredients = extractIngredients(content, sections)
	draft.Instructions = extractInstructions(content, sections)

	draft.Nutrition = extractNutrition(content)
	draft.Preferences = extractPreferences(content, sections)

	return draft
}

// extractIngredients prefers the segmented ingredients section; when the
// content never produced one (say the header sits inline with other text)
// it scans the raw content for a block introduced by an "ingredients:"
// header instead.
func extractIngredients(content string, sections map[string]string) []string {
	text, ok := sections[SectionIngredients]
	if !ok || strings.TrimSpace(text) == "" {
		m := ingredientBlockPattern.FindStringSubmatch(content)
		if m == nil {
			return nil
		}
		text = m[1]
	}
	if items := ListItems(text); items != nil {
		return items
	}
	// Ingredients written as plain lines instead of bullets.
	return nonEmptyLines(text)
}

// extractInstructions prefers the segmented instructions section. Without
// one, every section that is not ingredients or a metadata block still
// describes what to do, so they concatenate into the instructions; as a
// last resort the raw content stands in whole, so the draft never loses
// the text it was built from.
func extractInstructions(content string, sections map[string]string) string {
	if text, ok := sections[SectionInstructions]; ok && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}

	var parts []string
	for _, key := range []string{SectionIntro, SectionInstructions} {
		if text, ok := sections[key]; ok && strings.TrimSpace(text) != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}
	if joined := strings.Join(parts, "\n\n"); joined != "" {
		return joined
	}
	return strings.TrimSpace(content)
}

// detectMealType scans for meal-type words. Dinner is matched last so a
// plan mentioning "breakfast" anywhere wins over the default; when no
// type appears at all the fallback is dinner.
func detectMealType(content string) string {
	for _, p := range mealTypePatterns {
		if p.re.MatchString(content) {
			return p.mealType
		}
	}
	return "dinner"
}

func extractNutrition(content string) *NutritionInfo {
	values := numberFields(content, nutritionFieldPatterns)
	if len(values) == 0 {
		return nil
	}

	info := &NutritionInfo{}
	if v, ok := values["calories"]; ok {
		c := int(v)
		info.Calories = &c
	}
	if v, ok := values["protein"]; ok {
		info.Protein = floatPtr(v)
	}
	if v, ok := values["carbs"]; ok {
		info.Carbs = floatPtr(v)
	}
	if v, ok := values["fat"]; ok {
		info.Fat = floatPtr(v)
	}
	if v, ok := values["fiber"]; ok {
		info.Fiber = floatPtr(v)
	}
	return info
}

func extractPreferences(content string, sections map[string]string) *MealPreferences {
	prefs := &MealPreferences{}
	found := false

	for field, phrase := range stringFields(content, timeFieldPatterns) {
		minutes, ok := DurationMinutes(phrase)
		if !ok {
			continue
		}
		found = true
		switch field {
		case "prep_time":
			prefs.PrepTimeMinutes = intPtr(minutes)
		case "cook_time":
			prefs.CookTimeMinutes = intPtr(minutes)
		case "total_time":
			prefs.TotalTimeMinutes = intPtr(minutes)
		}
	}

	if m := servingsPattern.FindStringSubmatch(content); m != nil {
		if n, ok := parseInt(m[1]); ok {
			prefs.Servings = intPtr(n)
			found = true
		}
	}
	if tips, ok := sections[SectionTips]; ok && strings.TrimSpace(tips) != "" {
		prefs.Tips = strings.TrimSpace(tips)
		found = true
	}

	if !found {
		return nil
	}
	return prefs
}
