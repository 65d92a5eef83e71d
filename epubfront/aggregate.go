package epubfront

import (
	"archive/zip"
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docbc/common"
)

// Aggregate is the result of walking an EPUB's spine: one synthesized
// <body> holding every spine item's content in order, and a PageText per
// spine item (page_num is the 1-based spine index).
type Aggregate struct {
	Body  *html.Node
	Pages []common.PageText
}

// AggregateSpine loads every spine item's XHTML, rewrites its image paths
// to be archive-relative, and appends its body children to a synthesized
// aggregate body, per spec.md §4.12. In strict mode, an empty spine item
// text block aborts the conversion.
func AggregateSpine(zr *zip.Reader, pkg *Package, strict bool) (*Aggregate, error) {
	aggregate := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	var pages []common.PageText

	for i, itemPath := range pkg.Spine {
		pageNum := i + 1

		f := findZipFile(zr, itemPath)
		if f == nil {
			return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "spine item %s not found in archive", itemPath)
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "reading spine item %s", itemPath)
		}

		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", err, "parsing spine item %s", itemPath)
		}

		body := findBody(doc)
		if body == nil {
			if strict {
				return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "spine item %s has no body", itemPath)
			}
			continue
		}
		rewriteImageNode(body, itemPath)

		text := extractText(body)
		if strict && text == "" {
			return nil, common.NewConversionError(common.ErrKindEPUBFront, "epubfront", nil, "spine item %s produced empty text", itemPath)
		}
		pages = append(pages, common.PageText{PageNum: pageNum, RawText: text})

		for c := body.FirstChild; c != nil; c = c.NextSibling {
			aggregate.AppendChild(cloneTree(c))
		}
	}

	return &Aggregate{Body: aggregate, Pages: pages}, nil
}
