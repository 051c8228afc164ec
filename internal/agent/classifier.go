package agent

import (
	"sort"
	"strings"

	"github.com/lifeos/agent-api/internal/config"
)

// MessageMeta is the classification input for one agent message.
type MessageMeta struct {
	// MetadataAgentType is the authoritative agent type stored with the
	// message (e.g. "wellness_agent"). Ground truth when present.
	MetadataAgentType string

	// Label is a display label already attached to the message, if any.
	Label string

	// Content is the full response text.
	Content string
}

// Resolution is the classifier's verdict for one message.
// Key is KeyNone when classification is indeterminate; Label always carries
// something displayable (the orchestrator label in the indeterminate case).
type Resolution struct {
	Key   Key
	Label string
}

// resolver is one strategy in the resolution pipeline. It returns ok=false
// to pass the message to the next strategy.
type resolver interface {
	name() string
	resolve(meta MessageMeta) (Resolution, bool)
}

// Classifier resolves which domain agent owns a message.
//
// Strategies are tried in a fixed precedence order; the first that answers
// wins. Resolution is pure: identical input always yields the identical
// verdict, so stored messages reclassify on reload exactly as they did live.
type Classifier struct {
	resolvers []resolver
}

// NewClassifier builds the resolution pipeline from configuration.
func NewClassifier(cfg *config.ClassifierConfig) *Classifier {
	return &Classifier{
		resolvers: []resolver{
			metadataResolver{},
			labelResolver{},
			newKeywordResolver(cfg),
		},
	}
}

// Resolve runs the pipeline. Falls back to the orchestrator identity when
// every strategy passes.
func (c *Classifier) Resolve(meta MessageMeta) Resolution {
	for _, r := range c.resolvers {
		if res, ok := r.resolve(meta); ok {
			return res
		}
	}
	return Resolution{Key: KeyNone, Label: OrchestratorLabel}
}

// metadataResolver trusts the backend's stored agent type. It never yields
// for the generic orchestrator type, which carries no domain signal.
type metadataResolver struct{}

func (metadataResolver) name() string { return "metadata" }

func (metadataResolver) resolve(meta MessageMeta) (Resolution, bool) {
	raw := strings.TrimSpace(meta.MetadataAgentType)
	if raw == "" || isOrchestratorType(raw) {
		return Resolution{}, false
	}

	// The stored type is ground truth: its normalized form is the label,
	// verbatim ("wellness_agent" reads back as "Wellness Agent").
	return Resolution{Key: ParseKey(raw), Label: NormalizeLabel(raw)}, true
}

// labelResolver keeps a non-generic display label that is already attached.
type labelResolver struct{}

func (labelResolver) name() string { return "label" }

func (labelResolver) resolve(meta MessageMeta) (Resolution, bool) {
	label := strings.TrimSpace(meta.Label)
	if label == "" || IsGenericLabel(label) {
		return Resolution{}, false
	}
	return Resolution{Key: ParseKey(label), Label: label}, true
}

// keywordResolver scores content against per-domain vocabularies.
//
// Each distinct matched keyword contributes cfg.KeywordPoints. The top
// domain wins only with score >= cfg.MinScore AND a strict margin over the
// runner-up; ties are indeterminate by design, never an arbitrary pick.
// Content below cfg.MinContentLength carries too little signal and is never
// content-classified.
type keywordResolver struct {
	minContentLength int
	keywordPoints    int
	minScore         int
	vocabularies     map[Key][]string
}

func newKeywordResolver(cfg *config.ClassifierConfig) keywordResolver {
	vocab := make(map[Key][]string, len(cfg.Keywords))
	for rawKey, words := range cfg.Keywords {
		vocab[Key(rawKey)] = words
	}
	return keywordResolver{
		minContentLength: cfg.MinContentLength,
		keywordPoints:    cfg.KeywordPoints,
		minScore:         cfg.MinScore,
		vocabularies:     vocab,
	}
}

func (keywordResolver) name() string { return "keywords" }

func (r keywordResolver) resolve(meta MessageMeta) (Resolution, bool) {
	content := strings.ToLower(meta.Content)
	if len(content) < r.minContentLength {
		return Resolution{}, false
	}

	type scored struct {
		key   Key
		score int
	}

	scores := make([]scored, 0, len(r.vocabularies))
	for key, words := range r.vocabularies {
		score := 0
		for _, word := range words {
			if strings.Contains(content, strings.ToLower(word)) {
				score += r.keywordPoints
			}
		}
		scores = append(scores, scored{key: key, score: score})
	}

	// Deterministic order: score descending, key ascending for equal scores.
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].key < scores[j].key
	})

	if len(scores) == 0 {
		return Resolution{}, false
	}

	top := scores[0]
	if top.score < r.minScore {
		return Resolution{}, false
	}
	if len(scores) > 1 && scores[1].score == top.score {
		// Tie for first place: indeterminate.
		return Resolution{}, false
	}

	label := string(top.key)
	if info, ok := Lookup(top.key); ok {
		label = info.Label
	}
	return Resolution{Key: top.key, Label: label}, true
}
