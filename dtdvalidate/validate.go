// Package dtdvalidate wraps an external XML validator (spec.md §4.10): it
// resolves the DTD system path and invokes the validator as a subprocess
// with the XML catalog wired through the environment, surfacing the
// validator's stderr verbatim on failure.
package dtdvalidate

import (
	"context"
	"path/filepath"

	"docbc/common"
)

// Validate runs the configured DTD validator against xmlPath, requesting
// DTD-based validation against dtdSystem. catalogPath, when non-empty, is
// passed through XML_CATALOG_FILES so the validator resolves the DTD system
// identifier through the catalog rather than the network.
func Validate(ctx context.Context, binary, xmlPath, dtdSystem, catalogPath string) error {
	env := map[string]string{}
	if catalogPath != "" {
		abs, err := filepath.Abs(catalogPath)
		if err != nil {
			return common.NewConversionError(common.ErrKindValidation, "dtdvalidate", err, "resolving catalog path")
		}
		env["XML_CATALOG_FILES"] = abs
	}

	args := []string{"--noout", "--dtdvalid", dtdSystem, xmlPath}
	_, stderr, err := common.RunCommand(ctx, env, binary, args...)
	if err != nil {
		conversionErr := common.NewConversionError(common.ErrKindValidation, "dtdvalidate", err, "validating %s against %s", xmlPath, dtdSystem)
		conversionErr.Stderr = stderr
		return conversionErr
	}
	return nil
}
