package dtdvalidate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"docbc/common"
)

func writeStubValidator(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub validator script is POSIX-shell only")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "stub-validator.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("writing stub validator: %v", err)
	}
	return path
}

func TestValidateSucceedsOnZeroExit(t *testing.T) {
	binary := writeStubValidator(t, "exit 0\n")
	xmlPath := filepath.Join(t.TempDir(), "Book.xml")
	if err := os.WriteFile(xmlPath, []byte("<book/>"), 0o644); err != nil {
		t.Fatalf("writing fixture xml: %v", err)
	}

	if err := Validate(context.Background(), binary, xmlPath, "docbookx.dtd", ""); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateSurfacesStderrOnFailure(t *testing.T) {
	binary := writeStubValidator(t, "echo 'element book: validity error' >&2\nexit 1\n")
	xmlPath := filepath.Join(t.TempDir(), "Book.xml")
	if err := os.WriteFile(xmlPath, []byte("<book/>"), 0o644); err != nil {
		t.Fatalf("writing fixture xml: %v", err)
	}

	err := Validate(context.Background(), binary, xmlPath, "docbookx.dtd", "")
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	convErr, ok := err.(*common.ConversionError)
	if !ok {
		t.Fatalf("expected *common.ConversionError, got %T", err)
	}
	if convErr.Kind != common.ErrKindValidation {
		t.Errorf("Kind = %v, want %v", convErr.Kind, common.ErrKindValidation)
	}
	if convErr.Stderr == "" {
		t.Errorf("expected captured stderr, got empty")
	}
}

func TestValidateResolvesCatalogToAbsolutePath(t *testing.T) {
	binary := writeStubValidator(t, "case \"$XML_CATALOG_FILES\" in /*) exit 0;; esac\necho \"catalog not absolute: $XML_CATALOG_FILES\" >&2\nexit 1\n")
	xmlPath := filepath.Join(t.TempDir(), "Book.xml")
	if err := os.WriteFile(xmlPath, []byte("<book/>"), 0o644); err != nil {
		t.Fatalf("writing fixture xml: %v", err)
	}

	if err := Validate(context.Background(), binary, xmlPath, "docbookx.dtd", "catalog.xml"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
