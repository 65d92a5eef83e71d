package extract

import (
	"context"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"docbc/common"
)

// NativePDF is Extractor B: a pure-Go implementation using ledongthuc/pdf,
// independent of any Poppler/pdfminer subprocess so a real cross-check
// exists even on machines without the external tools installed.
type NativePDF struct{}

func (e *NativePDF) Name() string { return "native_pdf" }

func (e *NativePDF) ExtractPages(ctx context.Context, pdfPath string) ([]common.PageText, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindExtraction, "native_pdf", err, "opening PDF %q", pdfPath)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]common.PageText, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, common.PageText{PageNum: i})
			continue
		}
		text, err := pageTextOrdered(page)
		if err != nil {
			// A single unparsable page should not fail the whole document;
			// it surfaces as an empty page, which the Reconciler treats
			// like any other image-only page.
			pages = append(pages, common.PageText{PageNum: i})
			continue
		}
		pages = append(pages, common.PageText{PageNum: i, RawText: text})
	}
	return pages, nil
}

// pageTextOrdered groups content-stream text runs into visual lines by Y
// proximity, preserving stream order within a line and sorting lines
// top-to-bottom, falling back to the library's own plain-text extraction
// when the low-level content stream yields nothing usable.
func pageTextOrdered(page pdf.Page) (string, error) {
	content := page.Content()
	if len(content.Text) == 0 {
		return page.GetPlainText(nil)
	}

	const lineTolerance = 3.0

	type visualLine struct {
		y   float64
		buf strings.Builder
	}

	var lines []*visualLine
	var cur *visualLine
	for _, t := range content.Text {
		if cur == nil || absF(t.Y-cur.y) > lineTolerance {
			lines = append(lines, &visualLine{y: t.Y})
			cur = lines[len(lines)-1]
		}
		cur.buf.WriteString(t.S)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var parts []string
	for _, l := range lines {
		if text := strings.TrimSpace(l.buf.String()); text != "" {
			parts = append(parts, text)
		}
	}

	result := strings.Join(parts, "\n")
	if strings.TrimSpace(result) == "" {
		return page.GetPlainText(nil)
	}
	return result, nil
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
