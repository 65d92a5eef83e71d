package epubfront

import (
	"path"

	"github.com/beevik/etree"

	"docbc/common"
)

// ManifestItem is one OPF <manifest><item>.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// Package is the parsed OPF: the manifest keyed by id, and the spine as an
// ordered list of archive-relative XHTML paths.
type Package struct {
	Dir      string // directory containing the OPF file, archive-relative
	Manifest map[string]ManifestItem
	Spine    []string
}

// ParseOPF parses an OPF package document rooted at opfDir (the directory
// containing the .opf file within the archive), returning the manifest and
// the spine resolved to archive-relative XHTML paths in reading order.
func ParseOPF(data []byte, opfDir string) (*Package, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "parsing OPF")
	}
	root := doc.Root()
	if root == nil {
		return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "OPF has no root element")
	}

	pkg := &Package{Dir: opfDir, Manifest: map[string]ManifestItem{}}

	manifest := root.SelectElement("manifest")
	if manifest != nil {
		for _, item := range manifest.SelectElements("item") {
			id := item.SelectAttrValue("id", "")
			if id == "" {
				continue
			}
			pkg.Manifest[id] = ManifestItem{
				ID:        id,
				Href:      item.SelectAttrValue("href", ""),
				MediaType: item.SelectAttrValue("media-type", ""),
			}
		}
	}

	spine := root.SelectElement("spine")
	if spine != nil {
		for _, itemref := range spine.SelectElements("itemref") {
			idref := itemref.SelectAttrValue("idref", "")
			item, ok := pkg.Manifest[idref]
			if !ok || item.Href == "" {
				continue
			}
			pkg.Spine = append(pkg.Spine, pkg.resolve(item.Href))
		}
	}

	return pkg, nil
}

// resolve joins an OPF-relative href with the OPF's containing directory to
// produce an archive-relative path.
func (p *Package) resolve(href string) string {
	if p.Dir == "" || p.Dir == "." {
		return path.Clean(href)
	}
	return path.Clean(p.Dir + "/" + href)
}

func opfDirOf(opfPath string) string {
	dir := path.Dir(opfPath)
	if dir == "." {
		return ""
	}
	return dir
}
