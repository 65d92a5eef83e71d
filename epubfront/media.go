package epubfront

import (
	"archive/zip"
	"path"

	"docbc/packager"
)

// ZipMediaFetcher returns a packager.MediaFetcher that reads media by
// archive-relative path, falling back to a bare filename match (against
// every archive entry's leaf name) when the initial key isn't found.
func ZipMediaFetcher(zr *zip.Reader) packager.MediaFetcher {
	return func(original string) []byte {
		if f := findZipFile(zr, original); f != nil {
			if data, err := readZipFile(f); err == nil {
				return data
			}
		}

		leaf := path.Base(original)
		for _, f := range zr.File {
			if path.Base(f.Name) == leaf {
				if data, err := readZipFile(f); err == nil {
					return data
				}
			}
		}
		return nil
	}
}
