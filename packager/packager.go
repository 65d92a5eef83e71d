package packager

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"docbc/common"
	"docbc/config"
)

// Result is the outcome of a successful Package call.
type Result struct {
	ZipPath string
}

// Package splits root into chapter fragments, rewrites their media
// references, and assembles Book.xml plus every fragment and media asset
// into a single ZIP bundle next to outPath (whose extension is replaced
// with .zip and whose stem is replaced by the book's ISBN, when present).
func Package(root *etree.Element, rootName, dtdSystem, outPath string, fetch MediaFetcher, logger *zap.Logger) (*Result, error) {
	shell, fragments := SplitRoot(root)

	isbn := ExtractISBN(root)
	stem := isbn
	if stem == "" {
		stem = trimExt(filepath.Base(outPath))
	}
	// outPath's basename comes straight from the caller-supplied destination
	// path; strip path separators and leading dots before the ISBN/slug
	// narrowing in SanitiseBasename.
	base := SanitiseBasename(config.CleanFileName(stem))
	zipPath := filepath.Join(filepath.Dir(outPath), base+".zip")

	tmpDir, err := os.MkdirTemp("", "docbc-package-*")
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "creating staging directory")
	}
	defer os.RemoveAll(tmpDir)

	mediaDir := filepath.Join(tmpDir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "creating media directory")
	}

	var tocFragment *ChapterFragment
	var chapterFragments []ChapterFragment
	for i := range fragments {
		if fragments[i].Kind == "toc" {
			tocFragment = &fragments[i]
		} else {
			chapterFragments = append(chapterFragments, fragments[i])
		}
	}
	if tocFragment != nil {
		PopulateTOCFragment(tocFragment, chapterFragments)
	}

	bookXML, err := WriteBookXML(shell, rootName, dtdSystem, fragments)
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "rendering Book.xml")
	}
	bookPath := filepath.Join(tmpDir, "Book.xml")
	if err := os.WriteFile(bookPath, []byte(bookXML), 0o644); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "writing Book.xml")
	}

	type fragmentFile struct {
		fragment ChapterFragment
		path     string
	}
	var fragmentFiles []fragmentFile
	var mediaNames []string

	for _, fragment := range fragments {
		for _, asset := range rewriteMedia(&fragment, fetch, logger) {
			target := filepath.Join(mediaDir, asset.name)
			if err := os.WriteFile(target, asset.data, 0o644); err != nil {
				return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "writing media asset %s", asset.name)
			}
			mediaNames = append(mediaNames, asset.name)
		}

		serialized, err := serializeElement(fragment.Element)
		if err != nil {
			return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "rendering fragment %s", fragment.Filename)
		}
		fragmentPath := filepath.Join(tmpDir, fragment.Filename)
		if err := os.WriteFile(fragmentPath, []byte(serialized), 0o644); err != nil {
			return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "writing fragment %s", fragment.Filename)
		}
		fragmentFiles = append(fragmentFiles, fragmentFile{fragment: fragment, path: fragmentPath})
	}

	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "creating output directory")
	}

	zipFile, err := os.Create(zipPath)
	if err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "creating zip file")
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)

	if err := addFileToZip(zw, bookPath, "Book.xml"); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "adding Book.xml to zip")
	}
	for _, ff := range fragmentFiles {
		if err := addFileToZip(zw, ff.path, ff.fragment.Filename); err != nil {
			return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "adding fragment %s to zip", ff.fragment.Filename)
		}
	}
	if _, err := zw.Create("media/"); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "adding media/ directory entry")
	}

	sortedMediaNames := uniqueStrings(mediaNames)
	sort.Sort(natural.StringSlice(sortedMediaNames))
	for _, name := range sortedMediaNames {
		if err := addFileToZip(zw, filepath.Join(mediaDir, name), "media/"+name); err != nil {
			return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "adding media asset %s to zip", name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, common.NewConversionError(common.ErrKindPackage, "package", err, "finalizing zip")
	}

	return &Result{ZipPath: zipPath}, nil
}

func addFileToZip(zw *zip.Writer, sourcePath, memberName string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	w, err := zw.Create(memberName)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name
	}
	return name[:len(name)-len(ext)]
}
