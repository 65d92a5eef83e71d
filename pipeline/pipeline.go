// Package pipeline wires the individually-testable stages — extraction,
// normalization, reconciliation, OCR escalation, layout parsing, labeling,
// classification, tree building, validation, packaging, and QA metrics —
// into the two document-level conversions named in spec.md §2: ConvertPDF
// and ConvertEPUB. Each call owns one scoped temporary directory whose
// cleanup is guaranteed on every exit path.
package pipeline

import (
	"os"

	"go.uber.org/zap"

	"docbc/common"
	"docbc/qa"
)

// Result is what a document-level conversion hands back to its caller.
type Result struct {
	ZipPath string
	QA      qa.Summary
}

// scratchDir creates a scoped temporary directory for one conversion run.
// The returned cleanup always removes the directory and everything in it.
func scratchDir(prefix string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", prefix)
	if err != nil {
		return "", nil, common.NewConversionError(common.ErrKindPipeline, "pipeline", err, "creating scratch directory")
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func logOrNop(log *zap.Logger) *zap.Logger {
	if log != nil {
		return log
	}
	return zap.NewNop()
}
