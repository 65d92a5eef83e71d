package epubfront

import (
	"archive/zip"

	"docbc/common"
)

// Load resolves the OPF path, parses it, and aggregates the spine into one
// synthesized HTML body, tying together ResolveOPFPath, ParseOPF, and
// AggregateSpine per spec.md §4.12.
func Load(zr *zip.Reader, strict bool) (*Package, *Aggregate, error) {
	opfPath, err := ResolveOPFPath(zr)
	if err != nil {
		return nil, nil, err
	}

	f := findZipFile(zr, opfPath)
	if f == nil {
		return nil, nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "OPF file %s not found in archive", opfPath)
	}
	data, err := readZipFile(f)
	if err != nil {
		return nil, nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "reading OPF %s", opfPath)
	}

	pkg, err := ParseOPF(data, opfDirOf(opfPath))
	if err != nil {
		return nil, nil, err
	}

	aggregate, err := AggregateSpine(zr, pkg, strict)
	if err != nil {
		return nil, nil, err
	}

	return pkg, aggregate, nil
}
