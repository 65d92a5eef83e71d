package common

// NormalizationEvent records one Normalizer rule firing against a PageText,
// kept for debug reporting and for the `log_every_change` config knob.
type NormalizationEvent struct {
	Rule   string
	Before string
	After  string
}

// PageText is a single page's text as produced by an Extractor and then
// mutated, exactly once, by the Normalizer. Lifecycle: created by an
// extractor with RawText set and NormText empty; the Normalizer fills
// NormText, Checksum and Events; frozen thereafter.
type PageText struct {
	PageNum  int
	RawText  string
	NormText string
	Checksum string
	HasOCR   bool
	Events   []NormalizationEvent
}
