package pipeline

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"docbc/common"
	"docbc/config"
	"docbc/dtdvalidate"
	"docbc/epubfront"
	"docbc/packager"
	"docbc/qa"
)

// ConvertEPUB runs the EPUB control flow from spec.md §2: resolve the OPF,
// aggregate the spine into one HTML document, transform it to a DocBook
// tree, then feed the same Packager and QA Metrics stages as the PDF path.
func ConvertEPUB(ctx context.Context, epubPath, outPath string, cfg *config.Config, strict bool, log *zap.Logger) (*Result, error) {
	log = logOrNop(log)

	dir, cleanup, err := scratchDir("docbc-epub-")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := os.Open(epubPath)
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindEPUBFront, "pipeline", err, "opening EPUB %q", epubPath)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindEPUBFront, "pipeline", err, "stating EPUB %q", epubPath)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindEPUBFront, "pipeline", err, "opening EPUB archive %q", epubPath)
	}

	_, aggregate, err := epubfront.Load(zr, strict)
	if err != nil {
		return nil, err
	}

	root := epubfront.Transform(aggregate.Body, cfg.DocBook.Root)

	// There is no extractor pair to reconcile for EPUB (spec.md §4.1 is
	// PDF-specific); QA instead compares the pre-transform aggregate text
	// against the text recoverable from the built tree, as one book-wide
	// page, to catch content the HTML->DocBook transform dropped.
	before := []common.PageText{joinedPageText(aggregatePageTexts(aggregate.Pages))}
	after := []common.PageText{joinedPageText([]string{allText(root)})}
	qaSummary := qa.Collect(before, after, nil, &cfg.Tolerances)
	if strict && len(qaSummary.Flags) > 0 {
		return nil, common.NewConversionError(common.ErrKindPipeline, "pipeline", nil,
			"strict mode: QA flagged the document: %v", qaSummary.Flags)
	}

	if cfg.Validation.Binary != "" && cfg.DocBook.DTDSystem != "" {
		validatePath := filepath.Join(dir, "validate.xml")
		if err := writeTreeForValidation(root, validatePath); err != nil {
			return nil, err
		}
		if err := dtdvalidate.Validate(ctx, cfg.Validation.Binary, validatePath, cfg.DocBook.DTDSystem, cfg.Validation.CatalogPath); err != nil {
			return nil, err
		}
	}

	fetch := epubfront.ZipMediaFetcher(zr)
	result, err := packager.Package(root, cfg.DocBook.Root, cfg.DocBook.DTDSystem, outPath, fetch, log)
	if err != nil {
		return nil, err
	}

	return &Result{ZipPath: result.ZipPath, QA: qaSummary}, nil
}

func aggregatePageTexts(pages []common.PageText) []string {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.RawText)
	}
	return texts
}

func joinedPageText(texts []string) common.PageText {
	text := strings.Join(texts, "\n")
	return common.PageText{PageNum: 1, RawText: text, NormText: text, Checksum: common.Checksum(text)}
}

// allText concatenates every element's own text in document order, the way
// lxml's itertext() flattens mixed content, so the built tree's content can
// be compared against the aggregate text it was built from.
func allText(e *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(e)
	return strings.TrimSpace(b.String())
}
