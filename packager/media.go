package packager

import (
	"bytes"
	"fmt"
	"path"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// mediaAsset is one media file a fragment needs written into media/,
// already matched to its rewritten fileref name.
type mediaAsset struct {
	name string
	data []byte // nil means "missing; write a zero-byte placeholder"
}

var imagedataTags = map[string]bool{"imagedata": true, "graphic": true}

// iterImageData walks element's subtree for imagedata/graphic nodes that
// carry a fileref, in document order.
func iterImageData(element *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		if imagedataTags[e.Tag] && e.SelectAttrValue("fileref", "") != "" {
			out = append(out, e)
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(element)
	return out
}

// rewriteMedia rewrites every imagedata/graphic fileref under fragment's
// element to its new media/<Entity>f<NN>.<ext> name, fetching bytes via
// fetch and returning the assets that must be written alongside it. A
// fetch miss logs a warning and yields a zero-byte placeholder, matching
// the source's "don't fail the whole book over one missing image" stance.
func rewriteMedia(fragment *ChapterFragment, fetch MediaFetcher, logger *zap.Logger) []mediaAsset {
	var assets []mediaAsset
	imageIndex := 1

	for _, node := range iterImageData(fragment.Element) {
		original := node.SelectAttrValue("fileref", "")
		suffix := path.Ext(original)

		var data []byte
		if fetch != nil {
			data = fetch(original)
		}
		if suffix == "" {
			suffix = sniffExtension(data)
		}

		newName := fmt.Sprintf("%sf%02d%s", fragment.Entity, imageIndex, suffix)
		imageIndex++
		node.CreateAttr("fileref", "media/"+newName)

		if data == nil {
			if logger != nil {
				logger.Warn("missing media asset; writing placeholder", zap.String("fileref", original))
			}
			assets = append(assets, mediaAsset{name: newName})
			continue
		}
		validateImage(data, original, logger)
		assets = append(assets, mediaAsset{name: newName, data: data})
	}

	return assets
}

func sniffExtension(data []byte) string {
	if len(data) == 0 {
		return ".jpg"
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ".jpg"
	}
	return "." + kind.Extension
}

// validateImage decodes data to confirm it is a usable raster image before
// it is sealed into the bundle; a decode failure is logged, not fatal —
// the asset is still written so the bundle stays complete.
func validateImage(data []byte, original string, logger *zap.Logger) {
	if logger == nil {
		return
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		logger.Warn("media asset failed image validation",
			zap.String("fileref", original), zap.Error(err))
	}
}
