package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"docbc/classify"
	"docbc/common"
	"docbc/config"
	"docbc/docbook"
	"docbc/dtdvalidate"
	"docbc/extract"
	"docbc/label"
	"docbc/layout"
	"docbc/normalize"
	"docbc/ocr"
	"docbc/packager"
	"docbc/qa"
	"docbc/reconcile"
)

// ConvertPDF runs the full PDF control flow from spec.md §2: dual
// extraction, normalization, reconciliation, optional OCR escalation,
// geometric parsing, labeling, classification, DocBook tree synthesis, DTD
// validation, packaging, and QA metrics.
func ConvertPDF(ctx context.Context, pdfPath, outPath string, cfg *config.Config, ocrOnImageOnly, strict bool, log *zap.Logger) (*Result, error) {
	log = logOrNop(log)

	dir, cleanup, err := scratchDir("docbc-pdf-")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	extractorA := &extract.PopplerText{}
	extractorB := &extract.NativePDF{}

	pagesA, err := extractorA.ExtractPages(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	pagesB, err := extractorB.ExtractPages(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	pagesA = normalize.Pages(pagesA, &cfg.Normalization)
	pagesB = normalize.Pages(pagesB, &cfg.Normalization)

	report := reconcile.Reconcile(pagesA, pagesB, &cfg.Tolerances)

	var ocrPages []int
	if ocrOnImageOnly && cfg.OCR.Enabled && len(report.ImageOnlyPages) > 0 {
		ocrOut := filepath.Join(dir, "ocr.pdf")
		ocrPath, err := ocr.RunOCR(ctx, pdfPath, report.ImageOnlyPages, ocrOut)
		if err != nil {
			return nil, err
		}
		ocrPages = report.ImageOnlyPages

		pagesA, err = extractorA.ExtractPages(ctx, ocrPath)
		if err != nil {
			return nil, err
		}
		pagesB, err = extractorB.ExtractPages(ctx, ocrPath)
		if err != nil {
			return nil, err
		}
		pagesA = normalize.Pages(pagesA, &cfg.Normalization)
		pagesB = normalize.Pages(pagesB, &cfg.Normalization)
		pagesA = ocr.MarkOCRPages(pagesA, ocrPages)
		pagesB = ocr.MarkOCRPages(pagesB, ocrPages)

		report = reconcile.Reconcile(pagesA, pagesB, &cfg.Tolerances)
		pdfPath = ocrPath
	}

	if err := reconcile.Gate(report, strict); err != nil {
		return nil, err
	}

	xmlPath := filepath.Join(dir, "content.xml")
	if err := extract.ProducePDF2XML(ctx, pdfPath, xmlPath); err != nil {
		return nil, err
	}

	entries, err := layout.ParseFile(xmlPath)
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindLayout, "pipeline", err, "parsing positional document")
	}

	blocks := label.Label(entries, &cfg.PDF)
	blocks = classify.Apply(blocks, classify.SelectBackend(cfg.Classifier.Backend), &cfg.Classifier)

	root := docbook.Build(blocks, cfg.DocBook.Root)

	afterPages := reconstructPages(blocks)
	qaSummary := qa.Collect(pagesA, afterPages, ocrPages, &cfg.Tolerances)
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

	fetch := fsMediaFetcher(filepath.Dir(pdfPath))
	result, err := packager.Package(root, cfg.DocBook.Root, cfg.DocBook.DTDSystem, outPath, fetch, log)
	if err != nil {
		return nil, err
	}

	return &Result{ZipPath: result.ZipPath, QA: qaSummary}, nil
}

// reconstructPages groups the final labeled blocks by page, producing the
// "post-tree" PageText list QA Metrics compares against extractor A's
// normalized pages (spec.md §4.11).
func reconstructPages(blocks []common.Block) []common.PageText {
	byPage := map[int][]string{}
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		byPage[b.Page] = append(byPage[b.Page], text)
	}

	pageNums := make([]int, 0, len(byPage))
	for p := range byPage {
		pageNums = append(pageNums, p)
	}
	sort.Ints(pageNums)

	pages := make([]common.PageText, 0, len(pageNums))
	for _, p := range pageNums {
		text := strings.Join(byPage[p], "\n")
		pages = append(pages, common.PageText{
			PageNum:  p,
			RawText:  text,
			NormText: text,
			Checksum: common.Checksum(text),
		})
	}
	return pages
}

// writeTreeForValidation serializes the full (unsplit) DocBook tree to path
// for DTD validation ahead of packaging.
func writeTreeForValidation(root *etree.Element, path string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root.Copy())
	doc.Indent(2)
	if err := doc.WriteToFile(path); err != nil {
		return common.NewConversionError(common.ErrKindValidation, "pipeline", err, "writing tree for validation")
	}
	return nil
}

// fsMediaFetcher resolves a figure's fileref against baseDir, falling back
// to a leaf-name match within baseDir when the direct path doesn't exist.
func fsMediaFetcher(baseDir string) packager.MediaFetcher {
	return func(original string) []byte {
		if data, err := os.ReadFile(filepath.Join(baseDir, original)); err == nil {
			return data
		}
		leaf := filepath.Base(original)
		var found []byte
		_ = filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
			if err != nil || found != nil || info.IsDir() {
				return nil
			}
			if filepath.Base(path) == leaf {
				if data, err := os.ReadFile(path); err == nil {
					found = data
				}
			}
			return nil
		})
		return found
	}
}
