// Package reconcile cross-checks the normalized output of Extractor A
// against Extractor B, flagging per-page divergence and identifying
// image-only pages for OCR escalation.
package reconcile

import (
	"sort"

	"docbc/common"
	"docbc/config"
)

// Report is the result of reconciling two PageText lists.
type Report struct {
	// Flags maps page number to the set of flags raised for that page.
	Flags map[int][]string
	// ImageOnlyPages are pages where both extractors produced empty
	// normalized text.
	ImageOnlyPages []int
}

// Mismatches returns the sorted set of page numbers carrying any flag.
func (r *Report) Mismatches() []int {
	pages := make([]int, 0, len(r.Flags))
	for p := range r.Flags {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Reconcile compares a (extractor A) against b (extractor B), both already
// normalized, per spec.md §4.3.
func Reconcile(a, b []common.PageText, tol *config.TolerancesConfig) *Report {
	byPage := make(map[int]common.PageText, len(b))
	for _, pt := range b {
		byPage[pt.PageNum] = pt
	}

	report := &Report{Flags: make(map[int][]string)}

	for _, pa := range a {
		pb, ok := byPage[pa.PageNum]
		if !ok {
			report.Flags[pa.PageNum] = append(report.Flags[pa.PageNum], common.FlagMissingOutputPage)
			continue
		}

		if pa.NormText != pb.NormText {
			report.Flags[pa.PageNum] = append(report.Flags[pa.PageNum], common.FlagTextMismatch)
		}

		diff := len(pa.NormText) - len(pb.NormText)
		if diff < 0 {
			diff = -diff
		}
		if tol != nil && diff > tol.CharDiffPerPage {
			report.Flags[pa.PageNum] = append(report.Flags[pa.PageNum], common.FlagCharCountDiff)
		}

		if pa.NormText == "" && pb.NormText == "" {
			report.ImageOnlyPages = append(report.ImageOnlyPages, pa.PageNum)
		}
	}

	return report
}

// Gate applies the strict-mode contract: any page-level flag becomes a
// fatal error naming the full mismatch set.
func Gate(report *Report, strict bool) error {
	if !strict {
		return nil
	}
	mismatches := report.Mismatches()
	if len(mismatches) == 0 {
		return nil
	}
	return common.NewConversionError(common.ErrKindReconcile, "reconcile", nil,
		"strict mode: %d page(s) flagged: %v", len(mismatches), mismatches)
}
