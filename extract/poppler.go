package extract

import (
	"context"
	"strings"

	"docbc/common"
)

// PopplerText is Extractor A: a thin subprocess wrapper around `pdftotext`,
// splitting its form-feed-separated stdout into one PageText per page.
type PopplerText struct {
	// Binary overrides the pdftotext executable name, mainly for tests.
	Binary string
}

func (e *PopplerText) Name() string { return "poppler_text" }

func (e *PopplerText) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "pdftotext"
}

func (e *PopplerText) ExtractPages(ctx context.Context, pdfPath string) ([]common.PageText, error) {
	stdout, stderr, err := common.RunCommand(ctx, nil, e.binary(), "-enc", "UTF-8", "-layout", pdfPath, "-")
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindExtraction, "poppler_text", err, "pdftotext failed: %s", stderr)
	}

	pages := strings.Split(stdout, "\f")
	out := make([]common.PageText, 0, len(pages))
	for i, text := range pages {
		out = append(out, common.PageText{
			PageNum: i + 1,
			RawText: text,
		})
	}
	return out, nil
}
