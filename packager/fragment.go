// Package packager implements the Packager: it splits a built DocBook tree
// into chapter-sized fragments, rewrites media references into a media/
// directory, and assembles the whole thing into a chapterised ZIP bundle
// with a Book.xml master file that references fragments by XML entity.
package packager

import (
	"strings"

	"github.com/beevik/etree"
)

// MediaFetcher resolves an original fileref to its bytes, or nil if the
// asset cannot be found (the caller substitutes a zero-byte placeholder).
type MediaFetcher func(original string) []byte

// ChapterFragment is one extracted fragment: a chapter, the table of
// contents, the index, or (in the no-fragments-found fallback) a single
// synthetic wrapper holding everything that isn't front matter.
type ChapterFragment struct {
	Entity   string
	Filename string
	Element  *etree.Element
	Kind     string // "chapter", "toc" or "index"
	Title    string
}

var chapterTags = map[string]bool{
	"chapter":  true,
	"preface":  true,
	"appendix": true,
	"part":     true,
	"article":  true,
	"section":  true,
	"sect1":    true,
}

func isChapterNode(e *etree.Element) bool {
	return chapterTags[e.Tag]
}

func isTOCNode(e *etree.Element) bool {
	if e.Tag != "chapter" {
		return false
	}
	if strings.EqualFold(e.SelectAttrValue("role", ""), "toc") {
		return true
	}
	if text := extractTitleText(e); strings.EqualFold(text, "table of contents") {
		return true
	}
	return false
}

// extractTitleText concatenates a title element's own text and its
// children's text, the way lxml's itertext() flattens mixed content.
func extractTitleText(e *etree.Element) string {
	title := e.SelectElement("title")
	if title == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(title.Text())
	for _, child := range title.ChildElements() {
		b.WriteString(child.Text())
	}
	return strings.TrimSpace(b.String())
}
