// Package qa computes per-page and summary QA metrics (spec.md §4.11):
// character/word/checksum counts before and after the pipeline, mismatch
// flags, and a book-wide special-character census.
package qa

import (
	"sort"
	"strings"

	"docbc/common"
	"docbc/config"
)

// PageMetric is one page's before/after record.
type PageMetric struct {
	Page        int
	CharsIn     int
	CharsOut    int
	WordsIn     int
	WordsOut    int
	ChecksumIn  string
	ChecksumOut string
	Flags       []string
	HasOCR      bool
}

// Summary aggregates every page's metrics for the run.
type Summary struct {
	TotalPages   int
	Flags        []string
	SpecialChars map[rune]int
	Pages        []PageMetric
}

// Collect builds per-page metrics from the pre-normalization pages (as
// produced by extractor A) and the post-tree pages reconstructed from the
// final normalized per-page text, plus the set of pages that were OCR'd.
func Collect(before, after []common.PageText, ocrPages []int, tol *config.TolerancesConfig) Summary {
	ocrSet := make(map[int]bool, len(ocrPages))
	for _, p := range ocrPages {
		ocrSet[p] = true
	}
	afterByPage := make(map[int]common.PageText, len(after))
	for _, p := range after {
		afterByPage[p.PageNum] = p
	}

	summary := Summary{SpecialChars: map[rune]int{}}
	flagSet := map[string]bool{}

	for _, pre := range before {
		post, ok := afterByPage[pre.PageNum]
		metric := PageMetric{
			Page:       pre.PageNum,
			CharsIn:    len([]rune(pre.NormText)),
			WordsIn:    wordCount(pre.NormText),
			ChecksumIn: pre.Checksum,
			HasOCR:     ocrSet[pre.PageNum] || pre.HasOCR,
		}
		if !ok {
			metric.Flags = append(metric.Flags, common.FlagMissingOutputPage)
			flagSet[common.FlagMissingOutputPage] = true
		} else {
			metric.CharsOut = len([]rune(post.NormText))
			metric.WordsOut = wordCount(post.NormText)
			metric.ChecksumOut = post.Checksum
			metric.HasOCR = metric.HasOCR || post.HasOCR
			if post.Checksum != pre.Checksum && pre.NormText != "" {
				metric.Flags = append(metric.Flags, common.FlagTextMismatch)
				flagSet[common.FlagTextMismatch] = true
			}
			diff := absInt(metric.CharsIn - metric.CharsOut)
			if tol != nil && diff > tol.CharDiffPerPage {
				metric.Flags = append(metric.Flags, common.FlagCharCountDiff)
				flagSet[common.FlagCharCountDiff] = true
			}
		}

		countSpecialChars(pre.NormText, summary.SpecialChars)
		summary.Pages = append(summary.Pages, metric)
	}

	summary.TotalPages = len(before)
	for flag := range flagSet {
		summary.Flags = append(summary.Flags, flag)
	}
	sort.Strings(summary.Flags)
	return summary
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func countSpecialChars(text string, into map[rune]int) {
	for _, r := range text {
		if r > 127 {
			into[r]++
		}
	}
}
