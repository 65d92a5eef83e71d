package classify

import (
	"strings"

	"docbc/common"
)

// Noop mirrors the source's stub classifier: it echoes the heuristic label
// back with full confidence, useful as an explicit "classifier enabled but
// inert" configuration distinct from disabling the shim outright.
type Noop struct{}

func (Noop) Classify(block common.Block) (common.Label, float64) {
	return block.Label, 1.0
}

// Keyword is a small rule-based backend demonstrating the pluggable
// contract with real (if modest) behavior: it looks for a handful of
// surface cues a trained model would also key off of, and otherwise
// abstains by returning the heuristic label at zero confidence so the
// threshold gate falls back to heuristics.
type Keyword struct{}

func (Keyword) Classify(block common.Block) (common.Label, float64) {
	text := strings.TrimSpace(block.Text)
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lower, "figure ") || strings.HasPrefix(lower, "fig. ") || strings.HasPrefix(lower, "table "):
		return common.LabelCaption, 0.9
	case strings.HasPrefix(lower, "chapter ") || strings.HasPrefix(lower, "unit ") || strings.HasPrefix(lower, "lesson "):
		return common.LabelChapter, 0.9
	case strings.HasPrefix(lower, "section ") || strings.HasPrefix(lower, "part "):
		return common.LabelSection, 0.85
	default:
		return block.Label, 0.0
	}
}

// SelectBackend resolves the configured backend name to a Backend
// implementation, per the config's `oneof=noop keyword` validation. An
// unrecognized or empty name falls back to Noop.
func SelectBackend(name string) Backend {
	switch name {
	case "keyword":
		return Keyword{}
	default:
		return Noop{}
	}
}
