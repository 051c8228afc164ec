package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ClassifierConfig contains the content-classification vocabulary and
// thresholds used by agent.Classifier.
//
// The scoring constants reproduce the behavior the UI shipped with, but they
// are heuristics with no ground-truth oracle behind them, so they live in
// configuration rather than code. Deployments can tune them without a
// rebuild.
type ClassifierConfig struct {
	// MinContentLength is the minimum content length (in bytes) eligible for
	// content-based classification. Shorter content is always indeterminate.
	MinContentLength int `yaml:"min_content_length"`

	// KeywordPoints is the score contributed by each distinct matched keyword.
	KeywordPoints int `yaml:"keyword_points"`

	// MinScore is the minimum winning score required to classify.
	// The winner must also strictly exceed the runner-up.
	MinScore int `yaml:"min_score"`

	// Keywords maps an agent key to its domain vocabulary.
	Keywords map[string][]string `yaml:"keywords"`
}

// Validate performs validation of a ClassifierConfig value:
// - Thresholds must be positive
// - Every vocabulary must be non-empty
func (cfg *ClassifierConfig) Validate() error {
	if cfg.MinContentLength <= 0 {
		return errors.New("min_content_length must be positive")
	}
	if cfg.KeywordPoints <= 0 {
		return errors.New("keyword_points must be positive")
	}
	if cfg.MinScore <= 0 {
		return errors.New("min_score must be positive")
	}
	if len(cfg.Keywords) == 0 {
		return errors.New("no keyword vocabularies specified")
	}
	for agent, words := range cfg.Keywords {
		if len(words) == 0 {
			return fmt.Errorf("empty keyword vocabulary for agent %q", agent)
		}
	}
	return nil
}

// DefaultClassifierConfig returns the compiled-in classification vocabulary.
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		MinContentLength: 20,
		KeywordPoints:    2,
		MinScore:         4,
		Keywords: map[string][]string{
			"meal_planner": {
				"meal", "recipe", "ingredient", "cook", "cooking", "dinner",
				"lunch", "breakfast", "nutrition", "calorie", "protein",
				"grocery", "diet", "snack",
			},
			"productivity": {
				"task", "todo", "deadline", "schedule", "priority", "project",
				"meeting", "organize", "productivity", "goal", "reminder",
				"milestone", "workflow",
			},
			"study": {
				"study", "learn", "exam", "quiz", "notes", "revision",
				"course", "lecture", "practice", "flashcard", "homework",
				"concept", "syllabus",
			},
			"wellness": {
				"wellness", "exercise", "workout", "meditation", "sleep",
				"mood", "hydration", "stretch", "yoga", "fitness", "health",
				"mindfulness", "habit",
			},
		},
	}
}

// LoadClassifierConfig loads the classifier configuration from a YAML file,
// falling back to compiled-in defaults when path is empty.
func LoadClassifierConfig(path string) (*ClassifierConfig, error) {
	if path == "" {
		return DefaultClassifierConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier config: %w", err)
	}

	cfg := DefaultClassifierConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse classifier config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier config: %w", err)
	}

	return cfg, nil
}
