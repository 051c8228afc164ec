package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classifier.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultClassifierConfigIsValid(t *testing.T) {
	cfg := DefaultClassifierConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}
	for agent, words := range cfg.Keywords {
		if len(words) < 10 {
			t.Errorf("vocabulary for %q has %d terms, want at least 10", agent, len(words))
		}
	}
}

func TestLoadClassifierConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadClassifierConfig("")
	if err != nil {
		t.Fatalf("LoadClassifierConfig: %v", err)
	}
	if cfg.MinScore != 4 || cfg.KeywordPoints != 2 || cfg.MinContentLength != 20 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadClassifierConfigOverridesThresholds(t *testing.T) {
	path := writeConfigFile(t, "min_score: 6\nkeyword_points: 3\n")

	cfg, err := LoadClassifierConfig(path)
	if err != nil {
		t.Fatalf("LoadClassifierConfig: %v", err)
	}
	if cfg.MinScore != 6 || cfg.KeywordPoints != 3 {
		t.Errorf("thresholds = (%d, %d), want overrides applied", cfg.MinScore, cfg.KeywordPoints)
	}
	if cfg.MinContentLength != 20 {
		t.Errorf("min_content_length = %d, untouched fields keep defaults", cfg.MinContentLength)
	}
	if len(cfg.Keywords) == 0 {
		t.Error("keyword vocabularies lost during overlay")
	}
}

func TestLoadClassifierConfigReplacesVocabulary(t *testing.T) {
	path := writeConfigFile(t, `
keywords:
  meal_planner: [meal, recipe]
  productivity: [task, deadline]
  study: [study, exam]
  wellness: [yoga, sleep]
`)

	cfg, err := LoadClassifierConfig(path)
	if err != nil {
		t.Fatalf("LoadClassifierConfig: %v", err)
	}
	if len(cfg.Keywords["meal_planner"]) != 2 {
		t.Errorf("meal_planner vocabulary = %v", cfg.Keywords["meal_planner"])
	}
}

func TestLoadClassifierConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"negative threshold": "min_score: -1\n",
		"empty vocabulary":   "keywords:\n  meal_planner: []\n",
	}
	for name, content := range cases {
		path := writeConfigFile(t, content)
		if _, err := LoadClassifierConfig(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadClassifierConfigMissingFile(t *testing.T) {
	if _, err := LoadClassifierConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
