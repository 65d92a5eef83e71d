// Package ocr escalates image-only pages to an external OCR engine,
// collapsing the page set into a compact range expression and handing the
// resulting text-layer-added PDF back to the caller for re-extraction.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"docbc/common"
)

// CollapseRanges turns a page set into a compact range expression, e.g.
// [1,2,3,5,9,10] -> "1-3,5,9-10".
func CollapseRanges(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)

	unique := sorted[:1]
	for _, p := range sorted[1:] {
		if p != unique[len(unique)-1] {
			unique = append(unique, p)
		}
	}

	var ranges []string
	start, prev := unique[0], unique[0]
	flush := func() {
		if start == prev {
			ranges = append(ranges, strconv.Itoa(start))
		} else {
			ranges = append(ranges, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, p := range unique[1:] {
		if p == prev+1 {
			prev = p
			continue
		}
		flush()
		start, prev = p, p
	}
	flush()

	return strings.Join(ranges, ",")
}

// RunOCR invokes the external OCR engine (an `ocrmypdf`-shaped subprocess)
// to force-OCR the given pages of pdfPath, writing the result to outPath.
// Pages already carrying a text layer are left untouched. An empty pages
// list is a no-op that returns pdfPath unchanged.
func RunOCR(ctx context.Context, pdfPath string, pages []int, outPath string) (string, error) {
	if len(pages) == 0 {
		return pdfPath, nil
	}
	pageSpec := CollapseRanges(pages)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", common.NewConversionError(common.ErrKindOCR, "ocr", err, "creating output directory for %q", outPath)
	}

	_, stderr, err := common.RunCommand(ctx, nil, "ocrmypdf",
		"--force-ocr", "--skip-text", "--pages", pageSpec, pdfPath, outPath)
	if err != nil {
		return "", common.NewConversionError(common.ErrKindOCR, "ocr", err, "ocrmypdf failed on pages %s: %s", pageSpec, stderr)
	}
	return outPath, nil
}

// MarkOCRPages sets HasOCR=true on every PageText whose page number is in
// ocrPages, returning the same slice for chaining.
func MarkOCRPages(pages []common.PageText, ocrPages []int) []common.PageText {
	set := make(map[int]struct{}, len(ocrPages))
	for _, p := range ocrPages {
		set[p] = struct{}{}
	}
	for i := range pages {
		if _, ok := set[pages[i].PageNum]; ok {
			pages[i].HasOCR = true
		}
	}
	return pages
}
