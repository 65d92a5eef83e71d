package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ErrorKind classifies a ConversionError by the pipeline stage family that
// raised it, so callers (CLI exit codes, QA reports) can branch without
// string-matching messages.
type ErrorKind string

const (
	ErrKindExtraction ErrorKind = "extraction"
	ErrKindReconcile  ErrorKind = "reconcile"
	ErrKindOCR        ErrorKind = "ocr"
	ErrKindLayout     ErrorKind = "layout"
	ErrKindDocBook    ErrorKind = "docbook"
	ErrKindPackage    ErrorKind = "package"
	ErrKindValidation ErrorKind = "validation"
	ErrKindConfig     ErrorKind = "config"
	ErrKindEPUBFront  ErrorKind = "epub_front"
	ErrKindPipeline   ErrorKind = "pipeline"
)

// ConversionError is the structured fatal-error type returned by every
// pipeline stage. It carries enough context (kind, named stage, any captured
// subprocess stderr) for the CLI to report a precise diagnosis without the
// caller having to inspect an opaque wrapped error chain.
type ConversionError struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Stderr  string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// NewConversionError builds a ConversionError wrapping err, formatting
// Message the same way fmt.Errorf would.
func NewConversionError(kind ErrorKind, stage string, err error, format string, args ...any) *ConversionError {
	return &ConversionError{
		Kind:    kind,
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Checksum returns the hex-encoded SHA-256 digest of text, used by the QA
// Metrics Collector to detect silent page-content drift between runs.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
