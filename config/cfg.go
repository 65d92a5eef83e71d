package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// TemplateFieldName marks config fields that carry Go template text
	// rather than plain scalars, so gencfg's own expansion pass leaves them
	// untouched.
	TemplateFieldName string

	// NormalizationConfig controls the text Normalizer (spec.md §4.2).
	NormalizationConfig struct {
		CollapseInternalWhitespace bool   `yaml:"collapse_internal_whitespace"`
		DehyphenateLineEndings     string `yaml:"dehyphenate_line_endings" validate:"omitempty,oneof=safe off"`
		PreserveLigatures          bool   `yaml:"preserve_ligatures"`
		LogEveryChange             bool   `yaml:"log_every_change"`
	}

	// TolerancesConfig bounds the Extractor Reconciler's acceptable drift.
	TolerancesConfig struct {
		CharDiffPerPage int `yaml:"char_diff_per_page" validate:"gte=0"`
	}

	// PDFConfig holds PDF-layout-specific tunables.
	PDFConfig struct {
		ListMarkers []string `yaml:"list_markers"`
	}

	// ClassifierConfig configures the pluggable Classifier Shim.
	ClassifierConfig struct {
		Enabled      bool    `yaml:"enabled"`
		Threshold    float64 `yaml:"threshold" validate:"gte=0,lte=1"`
		AbstainLabel string  `yaml:"abstain_label" validate:"required_if=Enabled true"`
		Backend      string  `yaml:"backend" validate:"omitempty,oneof=noop keyword"`
	}

	// DocBookConfig names the output DocBook variant.
	DocBookConfig struct {
		Root      string `yaml:"root" validate:"required"`
		DTDSystem string `yaml:"dtd_system" validate:"required"`
	}

	// OCRConfig controls selective OCR escalation.
	OCRConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Language string `yaml:"language"`
	}

	// ValidationConfig locates the DTD validator binary and its XML catalog
	// (spec.md §4.10).
	ValidationConfig struct {
		Binary      string `yaml:"binary" validate:"required"`
		CatalogPath string `yaml:"catalog_path"`
	}

	// Config is the immutable, per-run merged configuration: a default
	// profile deep-merged with an optional publisher overlay.
	Config struct {
		Version       int                 `yaml:"version" validate:"eq=1"`
		Normalization NormalizationConfig `yaml:"normalization"`
		Tolerances    TolerancesConfig    `yaml:"tolerances"`
		PDF           PDFConfig           `yaml:"pdf"`
		Classifier    ClassifierConfig    `yaml:"classifier"`
		DocBook       DocBookConfig       `yaml:"docbook"`
		OCR           OCRConfig           `yaml:"ocr"`
		Validation    ValidationConfig    `yaml:"validation"`
		Logging       LoggingConfig       `yaml:"logging"`
		Reporting     ReporterConfig      `yaml:"reporting"`
	}
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){})

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template to
// provide sane defaults, and performs validation. An empty path yields the
// default profile alone.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	overlay, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(overlay, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates the default configuration file from the template and
// returns it as a byte slice (used by the `dumpconfig --default` command).
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump marshals the effective configuration back to YAML, e.g. for debug
// reports or `dumpconfig`.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// PublisherOverlay loads a publisher-specific overlay on top of the merged
// default, matching spec.md §3's "default profile deep-merged with an
// optional publisher overlay" data model for multi-tenant mapping files.
func PublisherOverlay(base *Config, overlayPath string) (*Config, error) {
	if len(overlayPath) == 0 {
		return base, nil
	}
	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read publisher overlay: %w", err)
	}
	merged := *base
	return unmarshalConfig(data, &merged, true)
}
