package layout

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// fontspec is the `<fontspec id size family>` table entry the positional
// document declares once per distinct font and that lines reference by id.
type fontspec struct {
	size float64
}

// ParseFile reads a pdf2xml-shaped positional document (see spec §4.5/§6)
// and returns its content stream as an ordered list of Entry values: lines
// assembled from same-top text nodes interleaved with image nodes, each
// page's entries sorted by (top, left) and pages appended in document
// order.
func ParseFile(path string) ([]Entry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("unable to read positional document: %w", err)
	}
	return Parse(doc)
}

// Parse is ParseFile's in-memory counterpart, exported so callers that
// synthesize a pdf2xml-equivalent document (e.g. a NativePDF fallback
// extractor) can skip the round trip through disk.
func Parse(doc *etree.Document) ([]Entry, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("positional document has no root element")
	}

	fontspecs := make(map[string]fontspec)
	for _, fs := range root.FindElements(".//fontspec") {
		id := fs.SelectAttrValue("id", "")
		fontspecs[id] = fontspec{size: floatAttr(fs, "size", 0)}
	}

	var entries []Entry
	for _, page := range root.FindElements(".//page") {
		pageEntries := parsePage(page, fontspecs)
		sort.SliceStable(pageEntries, func(i, j int) bool {
			if pageEntries[i].top() != pageEntries[j].top() {
				return pageEntries[i].top() < pageEntries[j].top()
			}
			return pageEntries[i].left() < pageEntries[j].left()
		})
		entries = append(entries, pageEntries...)
	}
	return entries, nil
}

func parsePage(page *etree.Element, fontspecs map[string]fontspec) []Entry {
	pageNum := int(intAttr(page, "number", 0))
	pageWidth := floatAttr(page, "width", 0)
	pageHeight := floatAttr(page, "height", 0)

	lines := parseLines(page, fontspecs, pageNum, pageWidth, pageHeight)

	entries := make([]Entry, 0, len(lines))
	for i := range lines {
		entries = append(entries, Entry{Line: &lines[i]})
	}

	for _, img := range page.FindElements("image") {
		src := img.SelectAttrValue("src", "")
		if src == "" {
			continue
		}
		entries = append(entries, Entry{
			IsImage: true,
			Image: &ImageEntry{
				PageNum: pageNum,
				Src:     src,
				Top:     floatAttr(img, "top", 0),
				Left:    floatAttr(img, "left", 0),
				Width:   floatAttr(img, "width", 0),
				Height:  floatAttr(img, "height", 0),
			},
		})
	}
	return entries
}

// parseLines groups the page's <text> nodes into Lines: nodes within 2
// points of vertical tolerance join the same line, accumulating segments
// and tracking the line's leftmost left, max height, and max font size.
func parseLines(page *etree.Element, fontspecs map[string]fontspec, pageNum int, pageWidth, pageHeight float64) []Line {
	type node struct {
		top, left float64
		el        *etree.Element
	}
	var nodes []node
	for _, el := range page.FindElements("text") {
		nodes = append(nodes, node{top: floatAttr(el, "top", 0), left: floatAttr(el, "left", 0), el: el})
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].top != nodes[j].top {
			return nodes[i].top < nodes[j].top
		}
		return nodes[i].left < nodes[j].left
	})

	const tolerance = 2.0
	var lines []Line
	for _, n := range nodes {
		content := n.el.Text()
		if blank(content) {
			continue
		}
		fontID := n.el.SelectAttrValue("font", "")
		fs := fontspecs[fontID]
		fontSize := fs.size
		if fontSize == 0 {
			fontSize = floatAttr(n.el, "size", 0)
		}
		width := floatAttr(n.el, "width", 0)
		height := floatAttr(n.el, "height", 0)
		seg := TextSegment{Text: content, Left: n.left, Width: width, FontSize: fontSize}

		if len(lines) > 0 && abs(lines[len(lines)-1].Top-n.top) <= tolerance {
			line := &lines[len(lines)-1]
			line.Segments = append(line.Segments, seg)
			if n.left < line.Left {
				line.Left = n.left
			}
			if height > line.Height {
				line.Height = height
			}
			if seg.FontSize > line.FontSize {
				line.FontSize = seg.FontSize
			}
			continue
		}

		lines = append(lines, Line{
			PageNum:    pageNum,
			PageWidth:  pageWidth,
			PageHeight: pageHeight,
			Top:        n.top,
			Left:       n.left,
			Height:     height,
			FontSize:   fontSize,
			Segments:   []TextSegment{seg},
		})
	}

	out := lines[:0]
	for i := range lines {
		line := &lines[i]
		line.Text = cleanJoin(line.Segments)
		if line.FontSize == 0 {
			for _, seg := range line.Segments {
				if seg.FontSize > line.FontSize {
					line.FontSize = seg.FontSize
				}
			}
		}
		if blank(line.Text) {
			continue
		}
		out = append(out, *line)
	}
	return out
}

func blank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func floatAttr(el *etree.Element, name string, def float64) float64 {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func intAttr(el *etree.Element, name string, def int) int {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
