// Package epubfront implements the EPUB Front-end (spec.md §4.12): it
// resolves an EPUB's OPF package document, aggregates its spine into one
// synthesized HTML document, transforms that into a DocBook tree, and hands
// the result to the Packager with a media fetcher backed by the EPUB ZIP.
package epubfront

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/beevik/etree"

	"docbc/common"
)

// ResolveOPFPath reads META-INF/container.xml from zr and returns the
// archive-relative path of its OPF root file, preferring the rootfile whose
// media-type is application/oebps-package+xml.
func ResolveOPFPath(zr *zip.Reader) (string, error) {
	f := findZipFile(zr, "META-INF/container.xml")
	if f == nil {
		return "", common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "missing META-INF/container.xml")
	}
	data, err := readZipFile(f)
	if err != nil {
		return "", common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "reading container.xml")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "parsing container.xml")
	}

	var fallback string
	for _, rootfile := range doc.FindElements(".//rootfile") {
		path := strings.TrimSpace(rootfile.SelectAttrValue("full-path", ""))
		if path == "" {
			continue
		}
		if strings.EqualFold(rootfile.SelectAttrValue("media-type", ""), "application/oebps-package+xml") {
			return path, nil
		}
		if fallback == "" {
			fallback = path
		}
	}
	if fallback == "" {
		return "", common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "container.xml has no usable rootfile")
	}
	return fallback, nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
