package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.Normalization.CollapseInternalWhitespace {
		t.Error("expected collapse_internal_whitespace default true")
	}
	if cfg.DocBook.Root != "book" {
		t.Errorf("DocBook.Root = %q, want %q", cfg.DocBook.Root, "book")
	}
	if cfg.Tolerances.CharDiffPerPage != 5 {
		t.Errorf("CharDiffPerPage = %d, want 5", cfg.Tolerances.CharDiffPerPage)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "publisher.yaml")

	content := `version: 1
normalization:
  collapse_internal_whitespace: true
  dehyphenate_line_endings: "off"
  preserve_ligatures: true
tolerances:
  char_diff_per_page: 12
docbook:
  root: book
  dtd_system: custom/docbookx.dtd
classifier:
  enabled: true
  threshold: 0.9
  abstain_label: para
  backend: keyword
logging:
  console:
    level: debug
  file:
    level: none
reporting:
  destination: report.zip
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Tolerances.CharDiffPerPage != 12 {
		t.Errorf("CharDiffPerPage = %d, want 12", cfg.Tolerances.CharDiffPerPage)
	}
	if cfg.DocBook.DTDSystem != "custom/docbookx.dtd" {
		t.Errorf("DTDSystem = %q, want custom", cfg.DocBook.DTDSystem)
	}
	if !cfg.Classifier.Enabled || cfg.Classifier.Backend != "keyword" {
		t.Errorf("Classifier overlay not applied: %+v", cfg.Classifier)
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestPrepareAndDumpRoundtrip(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() produced empty data")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	dumped, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(dumped) == 0 {
		t.Fatal("Dump() produced empty data")
	}
}

func TestPublisherOverlay_NoPath(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	merged, err := PublisherOverlay(cfg, "")
	if err != nil {
		t.Fatalf("PublisherOverlay() error = %v", err)
	}
	if merged != cfg {
		t.Error("expected same config pointer when overlay path is empty")
	}
}
