package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"docbc/config"
)

func buildTestEPUBFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.epub")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create epub: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"META-INF/container.xml": `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"content.opf": `<?xml version="1.0"?>
<package><manifest>
  <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
</manifest>
<spine><itemref idref="ch1"/></spine></package>`,
		"ch1.xhtml": `<html><body><h1>Chapter One</h1><p>Some body text.</p></body></html>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func testConfig() *config.Config {
	return &config.Config{
		Version: 1,
		Tolerances: config.TolerancesConfig{
			CharDiffPerPage: 1000,
		},
		DocBook: config.DocBookConfig{
			Root:      "book",
			DTDSystem: "docbookx/4.5/docbookx.dtd",
		},
	}
}

func TestConvertEPUBProducesZip(t *testing.T) {
	epubPath := buildTestEPUBFile(t)
	outPath := filepath.Join(t.TempDir(), "out.zip")
	log := zaptest.NewLogger(t)

	result, err := ConvertEPUB(context.Background(), epubPath, outPath, testConfig(), false, log)
	if err != nil {
		t.Fatalf("ConvertEPUB: %v", err)
	}
	if result.ZipPath != outPath {
		t.Errorf("ZipPath = %q, want %q", result.ZipPath, outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening output zip: %v", err)
	}
	var sawBookXML bool
	for _, f := range zr.File {
		if f.Name == "Book.xml" {
			sawBookXML = true
		}
	}
	if !sawBookXML {
		t.Errorf("expected Book.xml in output zip, got %+v", zr.File)
	}
}

func TestConvertEPUBStrictModeRespectsQAFlags(t *testing.T) {
	epubPath := buildTestEPUBFile(t)
	outPath := filepath.Join(t.TempDir(), "out.zip")
	log := zaptest.NewLogger(t)

	cfg := testConfig()
	cfg.Tolerances.CharDiffPerPage = 0

	// A tight tolerance with real content should still succeed here since
	// before/after text for this fixture matches exactly; this exercises
	// the strict-mode gate path without expecting it to trip.
	if _, err := ConvertEPUB(context.Background(), epubPath, outPath, cfg, true, log); err != nil {
		t.Fatalf("ConvertEPUB strict: %v", err)
	}
}
