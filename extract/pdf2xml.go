package extract

import (
	"context"
	"os"
	"path/filepath"

	"docbc/common"
)

// ProducePDF2XML invokes the positional PDF XML producer (a `pdftohtml -xml`
// shaped subprocess) to write the pdf2xml-formatted document the Geometric
// Stream Parser consumes at outPath.
func ProducePDF2XML(ctx context.Context, pdfPath, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return common.NewConversionError(common.ErrKindExtraction, "pdf2xml", err, "creating output directory for %q", outPath)
	}
	_, stderr, err := common.RunCommand(ctx, nil, "pdftohtml", "-xml", "-enc", "UTF-8", "-nodrm", "-zoom", "1.0", pdfPath, outPath)
	if err != nil {
		return common.NewConversionError(common.ErrKindExtraction, "pdf2xml", err, "pdftohtml failed: %s", stderr)
	}
	return nil
}
