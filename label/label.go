// Package label implements the Heuristic Labeler: it turns a page's
// geometric Line/Image stream into semantically tagged Blocks using
// font-size statistics, geometric cues, and keyword patterns, with no
// external dependency beyond the page content itself.
package label

import (
	"regexp"
	"sort"
	"strings"

	"docbc/common"
	"docbc/config"
	"docbc/layout"
)

var (
	chapterRe     = regexp.MustCompile(`(?i)^(chapter|chap\.|unit|lesson|module)\b`)
	sectionRe     = regexp.MustCompile(`(?i)^(section|sec\.|part)\b`)
	captionRe     = regexp.MustCompile(`(?i)^(figure|fig\.|table)\s+\d+`)
	orderedListRe = regexp.MustCompile(`^(?:\(?\d+[.)]|[A-Za-z][.)])\s+`)
)

// headingFontTolerance bounds the font-size delta for lines considered part
// of the same multi-line book title.
const headingFontTolerance = 1.0

// Label converts the parsed positional entries into an ordered list of
// Blocks, following the precedence in spec.md §4.6: book title, chapter,
// section, caption, list item, then paragraph (with table detection
// running ahead of paragraph merging on every new line).
func Label(entries []layout.Entry, cfg *config.PDFConfig) []common.Block {
	lines := make([]*layout.Line, 0, len(entries))
	for _, e := range entries {
		if !e.IsImage {
			lines = append(lines, e.Line)
		}
	}
	bodySize := bodyFontSize(lines)

	var blocks []common.Block
	var currentPara []*layout.Line
	sawBookTitle := false

	flushPara := func() {
		if len(currentPara) > 0 {
			blocks = append(blocks, finalizeParagraph(currentPara))
			currentPara = nil
		}
	}

	idx := 0
	for idx < len(entries) {
		entry := entries[idx]

		if entry.IsImage {
			flushPara()
			img := entry.Image
			blocks = append(blocks, common.Block{
				Label: common.LabelFigure,
				Page:  img.PageNum,
				BBox:  common.BBox{Top: img.Top, Left: img.Left, Width: img.Width, Height: img.Height},
				Figure: &common.FigurePayload{Src: img.Src},
			})
			idx++
			continue
		}

		line := entry.Line
		if isHeaderFooter(line) {
			idx++
			continue
		}

		// Table detection runs on the contiguous run of remaining lines.
		remaining := remainingLines(entries, idx)
		if tableBlock, consumed := extractTable(remaining); tableBlock != nil {
			flushPara()
			blocks = append(blocks, *tableBlock)
			idx += advanceOverLines(entries, idx, consumed)
			continue
		}

		text := strings.TrimSpace(line.Text)
		listMatch, listType, listText := isListItem(text, cfg)

		if !sawBookTitle && looksLikeBookTitle(line, bodySize) {
			flushPara()
			headingLines, nextIdx := collectMultilineBookTitle(entries, idx, bodySize)
			blocks = append(blocks, finalizeHeading(common.LabelBookTitle, headingLines))
			sawBookTitle = true
			idx = nextIdx
			continue
		}

		if looksLikeChapterHeading(line, bodySize) {
			flushPara()
			headingLines, nextIdx := collectChapterHeading(entries, idx, bodySize)
			blocks = append(blocks, finalizeHeading(common.LabelChapter, headingLines))
			idx = nextIdx
			continue
		}

		if looksLikeSectionHeading(line, bodySize) {
			flushPara()
			blocks = append(blocks, common.Block{
				Label:    common.LabelSection,
				Text:     text,
				Page:     line.PageNum,
				BBox:     common.BBox{Top: line.Top, Left: line.Left, Width: line.Right() - line.Left, Height: line.Height},
				FontSize: line.FontSize,
			})
			idx++
			continue
		}

		if looksLikeCaption(line) {
			flushPara()
			blocks = append(blocks, common.Block{
				Label:    common.LabelCaption,
				Text:     text,
				Page:     line.PageNum,
				BBox:     common.BBox{Top: line.Top, Left: line.Left, Width: line.Right() - line.Left, Height: line.Height},
				FontSize: line.FontSize,
			})
			idx++
			continue
		}

		if listMatch {
			flushPara()
			blocks = append(blocks, common.Block{
				Label:    common.LabelListItem,
				Text:     listText,
				Page:     line.PageNum,
				BBox:     common.BBox{Top: line.Top, Left: line.Left, Width: line.Right() - line.Left, Height: line.Height},
				FontSize: line.FontSize,
				List:     &common.ListPayload{Type: listType},
			})
			idx++
			continue
		}

		if len(currentPara) == 0 {
			currentPara = []*layout.Line{line}
		} else if shouldMerge(currentPara[len(currentPara)-1], line, bodySize) {
			currentPara = append(currentPara, line)
		} else {
			blocks = append(blocks, finalizeParagraph(currentPara))
			currentPara = []*layout.Line{line}
		}
		idx++
	}
	flushPara()

	return blocks
}

// bodyFontSize estimates the document's body text size: the median font
// size of "long" lines (≥30 chars), falling back to any non-zero font size,
// defaulting to 12.0 when nothing is usable.
func bodyFontSize(lines []*layout.Line) float64 {
	if len(lines) == 0 {
		return 12.0
	}
	var samples []float64
	for _, l := range lines {
		if len(strings.TrimSpace(l.Text)) >= 30 && l.FontSize != 0 {
			samples = append(samples, l.FontSize)
		}
	}
	if len(samples) == 0 {
		for _, l := range lines {
			if l.FontSize != 0 {
				samples = append(samples, l.FontSize)
			}
		}
	}
	if len(samples) == 0 {
		return 12.0
	}
	return median(samples)
}

func median(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

func isHeaderFooter(line *layout.Line) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return true
	}
	if len(text) <= 4 && isDigits(text) {
		if line.PageHeight != 0 && (line.Top < line.PageHeight*0.08 || line.Top > line.PageHeight*0.9) {
			return true
		}
	}
	if len(text) <= 30 && strings.HasPrefix(strings.ToLower(text), "copyright") {
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func looksLikeBookTitle(line *layout.Line, bodySize float64) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" || line.PageNum > 2 {
		return false
	}
	if line.PageHeight != 0 {
		if line.Top > line.PageHeight*0.45 {
			return false
		}
	} else if line.Top > 400 {
		return false
	}
	if line.FontSize >= bodySize+6 {
		return true
	}
	if line.FontSize >= bodySize+4 && wordCount(text) <= 12 {
		return true
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// collectMultilineBookTitle gathers consecutive lines that belong to the
// same book title block, stopping before "Table of Contents".
func collectMultilineBookTitle(entries []layout.Entry, startIdx int, bodySize float64) ([]*layout.Line, int) {
	first := entries[startIdx].Line
	heading := []*layout.Line{first}
	lookahead := startIdx + 1

	for lookahead < len(entries) {
		next := entries[lookahead]
		if next.IsImage {
			break
		}
		nl := next.Line
		if isHeaderFooter(nl) {
			break
		}
		text := strings.TrimSpace(nl.Text)
		if text == "" {
			break
		}
		if strings.EqualFold(text, "table of contents") {
			break
		}

		samePage := nl.PageNum == first.PageNum
		similarFont := false
		if first.FontSize != 0 && nl.FontSize != 0 {
			similarFont = absF(nl.FontSize-first.FontSize) <= headingFontTolerance
		}

		if samePage && (similarFont || looksLikeBookTitle(nl, bodySize)) {
			heading = append(heading, nl)
			lookahead++
			continue
		}
		break
	}
	return heading, lookahead
}

func looksLikeChapterHeading(line *layout.Line, bodySize float64) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}
	if chapterRe.MatchString(text) {
		return true
	}
	if line.FontSize >= bodySize+3 {
		if line.PageHeight != 0 && line.Top <= line.PageHeight*0.45 {
			return true
		}
		if wordCount(text) <= 10 {
			return true
		}
	}
	return false
}

func collectChapterHeading(entries []layout.Entry, startIdx int, bodySize float64) ([]*layout.Line, int) {
	heading := []*layout.Line{entries[startIdx].Line}
	lookahead := startIdx + 1
	for lookahead < len(entries) {
		next := entries[lookahead]
		if next.IsImage {
			break
		}
		nl := next.Line
		if isHeaderFooter(nl) {
			break
		}
		if !looksLikeChapterHeading(nl, bodySize) {
			break
		}
		heading = append(heading, nl)
		lookahead++
	}
	return heading, lookahead
}

func looksLikeSectionHeading(line *layout.Line, bodySize float64) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}
	if sectionRe.MatchString(text) {
		return true
	}
	if line.FontSize >= bodySize+1.5 && wordCount(text) <= 14 {
		return true
	}
	if wordCount(text) <= 8 && isUpper(text) && line.FontSize >= bodySize {
		return true
	}
	return false
}

func isUpper(s string) bool {
	seenLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			seenLetter = true
		}
	}
	return seenLetter
}

func looksLikeCaption(line *layout.Line) bool {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return false
	}
	return captionRe.MatchString(text)
}

func isListItem(text string, cfg *config.PDFConfig) (bool, common.ListType, string) {
	stripped := strings.TrimLeft(text, " \t")
	if cfg != nil {
		for _, marker := range cfg.ListMarkers {
			if strings.HasPrefix(stripped, marker) {
				remainder := strings.TrimSpace(stripped[len(marker):])
				if remainder == "" {
					remainder = strings.TrimSpace(text)
				}
				return true, common.ListTypeItemized, remainder
			}
		}
	}
	if loc := orderedListRe.FindStringIndex(stripped); loc != nil {
		remainder := strings.TrimSpace(stripped[loc[1]:])
		if remainder == "" {
			remainder = stripped
		}
		return true, common.ListTypeOrdered, remainder
	}
	return false, "", text
}

func shouldMerge(prev, next *layout.Line, bodySize float64) bool {
	if prev.PageNum != next.PageNum {
		return false
	}
	verticalGap := next.Top - prev.Top
	if verticalGap > maxF(prev.Height, next.Height)*1.9+2 {
		return false
	}
	indentDiff := absF(prev.Left - next.Left)
	if indentDiff > 60 && verticalGap > minF(prev.Height, next.Height)*1.1 {
		return false
	}
	if next.Left-prev.Left < -80 {
		return false
	}
	return true
}

func finalizeParagraph(lines []*layout.Line) common.Block {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = strings.TrimSpace(l.Text)
	}
	left, right, bottom := lines[0].Left, lines[0].Right(), lines[0].Top+lines[0].Height
	var fontSize float64
	for _, l := range lines {
		if l.Left < left {
			left = l.Left
		}
		if r := l.Right(); r > right {
			right = r
		}
		if b := l.Top + l.Height; b > bottom {
			bottom = b
		}
		if l.FontSize > fontSize {
			fontSize = l.FontSize
		}
	}
	return common.Block{
		Label:    common.LabelPara,
		Text:     strings.TrimSpace(strings.Join(texts, " ")),
		Page:     lines[0].PageNum,
		BBox:     common.BBox{Top: lines[0].Top, Left: left, Width: right - left, Height: bottom - lines[0].Top},
		FontSize: fontSize,
	}
}

func finalizeHeading(lbl common.Label, lines []*layout.Line) common.Block {
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l.Text); t != "" {
			texts = append(texts, t)
		}
	}
	left, right, bottom := lines[0].Left, lines[0].Right(), lines[0].Top+lines[0].Height
	var fontSize float64
	for _, l := range lines {
		if l.Left < left {
			left = l.Left
		}
		if r := l.Right(); r > right {
			right = r
		}
		if b := l.Top + l.Height; b > bottom {
			bottom = b
		}
		if l.FontSize > fontSize {
			fontSize = l.FontSize
		}
	}
	return common.Block{
		Label:    lbl,
		Text:     strings.Join(texts, " "),
		Page:     lines[0].PageNum,
		BBox:     common.BBox{Top: lines[0].Top, Left: left, Width: right - left, Height: bottom - lines[0].Top},
		FontSize: fontSize,
	}
}

func remainingLines(entries []layout.Entry, from int) []*layout.Line {
	var out []*layout.Line
	for _, e := range entries[from:] {
		if !e.IsImage {
			out = append(out, e.Line)
		}
	}
	return out
}

// advanceOverLines returns how many entries (lines and interleaved images)
// must be skipped starting at idx to consume wantLines worth of line
// entries, so image entries inside a detected table run are skipped too.
func advanceOverLines(entries []layout.Entry, idx, wantLines int) int {
	consumed := 0
	advanced := 0
	for idx+advanced < len(entries) && consumed < wantLines {
		if !entries[idx+advanced].IsImage {
			consumed++
		}
		advanced++
	}
	return advanced
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
