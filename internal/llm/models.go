package llm

import "strings"

// ModelTier buckets a request by how much model capability it likely
// needs, so cheap questions go to cheap models.
type ModelTier int

const (
	TierSimple ModelTier = iota
	TierMedium
	TierComplex
)

func (t ModelTier) String() string {
	switch t {
	case TierSimple:
		return "simple"
	case TierComplex:
		return "complex"
	default:
		return "medium"
	}
}

// complexMarkers are vocabulary that usually signals a question needing
// multi-step reasoning.
var complexMarkers = []string{
	"analyze", "compare", "architecture", "optimize", "refactor",
	"step by step", "walk me through", "trade-off", "tradeoff", "debug",
}

// ClassifyTier is a deterministic complexity heuristic: code blocks, long
// prompts, and analysis vocabulary go to the complex tier; very short
// messages go to the simple tier; everything else is medium.
func ClassifyTier(text string) ModelTier {
	lower := strings.ToLower(text)
	if strings.Contains(text, "```") || len(text) > 600 {
		return TierComplex
	}
	for _, m := range complexMarkers {
		if strings.Contains(lower, m) {
			return TierComplex
		}
	}
	if len(text) < 80 && len(strings.Fields(text)) < 15 {
		return TierSimple
	}
	return TierMedium
}
