package packager

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
)

var nonAlnumRe = regexp.MustCompile(`[^0-9A-Za-z]`)
var nonBasenameRe = regexp.MustCompile(`[^0-9A-Za-z_-]`)

// ExtractISBN returns the first non-blank <isbn> text under root, with
// punctuation stripped, or "" if none is present.
func ExtractISBN(root *etree.Element) string {
	for _, node := range root.FindElements(".//isbn") {
		text := strings.TrimSpace(node.Text())
		if text == "" {
			continue
		}
		if cleaned := nonAlnumRe.ReplaceAllString(text, ""); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// SanitiseBasename derives a filesystem/ZIP-safe stem for the output
// bundle. Every character outside [0-9A-Za-z_-] is dropped, so
// "Moby Dick!" becomes "MobyDick". Only when that leaves nothing is the
// name passed through slug.Make and filtered again; if that is empty too,
// the result is "book".
func SanitiseBasename(name string) string {
	cleaned := nonBasenameRe.ReplaceAllString(name, "")
	if cleaned != "" {
		return cleaned
	}
	slugged := slug.Make(name)
	cleaned = nonBasenameRe.ReplaceAllString(slugged, "")
	if cleaned == "" {
		return "book"
	}
	return cleaned
}
