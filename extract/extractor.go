// Package extract provides the two independent PDF text extractors the
// Reconciler cross-checks against each other, plus the subprocess wrapper
// that produces the positional pdf2xml document the Geometric Stream
// Parser consumes.
package extract

import (
	"context"

	"docbc/common"
)

// Extractor produces one PageText per page of a PDF, page numbering
// starting at 1. Implementations are independent (distinct libraries or
// subprocesses) so the Reconciler has something meaningful to compare.
type Extractor interface {
	Name() string
	ExtractPages(ctx context.Context, pdfPath string) ([]common.PageText, error)
}
