// Package classify implements the pluggable Classifier Shim: when disabled
// it echoes the heuristic label with full confidence; when enabled it
// defers to a Backend and abstains to the heuristic label below threshold.
package classify

import (
	"docbc/common"
	"docbc/config"
)

// Backend returns a (label, confidence) pair for a block's text, optionally
// consulting geometry/font features. Implementations must be safe to call
// once per block; a Backend that errors or panics is the caller's problem
// to recover from (spec.md §7: classifier errors recover locally).
type Backend interface {
	Classify(block common.Block) (label common.Label, confidence float64)
}

// Apply runs the configured backend over blocks and sets ClassifierLabel /
// ClassifierConfidence on each, in place, returning the same slice.
//
// When classifier.enabled is false every block gets ClassifierLabel = Label,
// ClassifierConfidence = 1.0. When enabled, a confidence below the
// configured threshold abstains to abstain_label — by convention the
// heuristic label itself, so misconfiguration cannot silently downgrade
// output quality (the Tree Builder always consumes ClassifierLabel).
func Apply(blocks []common.Block, backend Backend, cfg *config.ClassifierConfig) []common.Block {
	for i := range blocks {
		b := &blocks[i]
		if cfg == nil || !cfg.Enabled || backend == nil {
			b.ClassifierLabel = b.Label
			b.ClassifierConfidence = 1.0
			continue
		}

		label, confidence := backend.Classify(*b)
		b.ClassifierConfidence = confidence
		if confidence < cfg.Threshold {
			if cfg.AbstainLabel != "" {
				b.ClassifierLabel = common.Label(cfg.AbstainLabel)
			} else {
				b.ClassifierLabel = b.Label
			}
			continue
		}
		b.ClassifierLabel = label
	}
	return blocks
}
