package docbook

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"docbc/common"
)

var (
	indexLetterRe = regexp.MustCompile(`^[A-Z]$`)
	indexRefRe    = regexp.MustCompile(`(?i),\s*(see(?:\s+also)?)\s+(.*)$`)
	indexPageRe   = regexp.MustCompile(`(\d[\dA-Za-z\s,\x{2013}-]*)$`)
	indexDotsRe   = regexp.MustCompile(`\.{2,}`)
)

// indexState is the index sub-state machine's own state: the current
// <indexdiv>, the current <indexentry> new secondary entries nest under,
// and the leftmost x of top-level entries used to compute indent.
type indexState struct {
	currentDiv   *etree.Element
	currentEntry *etree.Element
	baseLeft     *float64
	haveBaseLeft bool
}

func newIndexState() *indexState {
	return &indexState{}
}

// handleIndexPara processes one paragraph-labeled block while inside an
// index container, per spec.md §4.8. Returns false if there is no active
// index (the caller should fall through to ordinary paragraph handling).
func (s *builderState) handleIndexPara(block common.Block) bool {
	index := s.currentIndex
	if index == nil {
		return false
	}

	text := strings.TrimSpace(block.Text)
	if text == "" {
		return true
	}

	normalized := normalizeIndexText(text)
	if normalized == "" {
		return true
	}

	if s.indexState == nil {
		s.indexState = newIndexState()
	}
	idx := s.indexState

	left := block.BBox.Left
	if !idx.haveBaseLeft {
		idx.baseLeft = &left
		idx.haveBaseLeft = true
	}

	if indexLetterRe.MatchString(normalized) {
		div := index.CreateElement("indexdiv")
		ensureTitle(div, normalized)
		idx.currentDiv = div
		idx.currentEntry = nil
		idx.baseLeft = &left
		idx.haveBaseLeft = true
		s.lastStructure = div
		s.closeList()
		return true
	}

	if idx.currentDiv == nil {
		initial := "#"
		if normalized != "" {
			initial = strings.ToUpper(string([]rune(normalized)[0]))
		}
		div := index.CreateElement("indexdiv")
		ensureTitle(div, initial)
		idx.currentDiv = div
		idx.baseLeft = &left
		idx.haveBaseLeft = true
	}

	baseLeft := 0.0
	if idx.baseLeft != nil {
		baseLeft = *idx.baseLeft
	}
	indent := left - baseLeft
	if indent < 0 {
		indent = 0
	}

	workingText, referenceText := extractIndexReference(normalized)
	workingText, pagesText := extractIndexPages(workingText)
	entryText := strings.Trim(workingText, ", ")

	if entryText == "" {
		if idx.currentEntry != nil {
			if pagesText != "" {
				idx.currentEntry.CreateElement("seeie").SetText(pagesText)
			}
			if referenceText != "" {
				idx.currentEntry.CreateElement("seealsoie").SetText(referenceText)
			}
		}
		return true
	}

	div := idx.currentDiv
	if div == nil {
		initial := "#"
		if entryText != "" {
			initial = strings.ToUpper(string([]rune(entryText)[0]))
		}
		div = index.CreateElement("indexdiv")
		ensureTitle(div, initial)
		idx.currentDiv = div
	}

	const indentThreshold = 18.0
	if indent <= indentThreshold || idx.currentEntry == nil {
		entry := div.CreateElement("indexentry")
		entry.CreateElement("primaryie").SetText(entryText)
		if pagesText != "" {
			entry.CreateElement("seeie").SetText(pagesText)
		}
		if referenceText != "" {
			entry.CreateElement("seealsoie").SetText(referenceText)
		}
		idx.currentEntry = entry
		s.closeList()
		return true
	}

	secondaryContainer := idx.currentEntry.CreateElement("secondaryie")
	secondaryContainer.CreateElement("secondaryie").SetText(entryText)
	if pagesText != "" {
		secondaryContainer.CreateElement("seeie").SetText(pagesText)
	}
	if referenceText != "" {
		secondaryContainer.CreateElement("seealsoie").SetText(referenceText)
	}
	s.closeList()
	return true
}

func normalizeIndexText(text string) string {
	cleaned := indexDotsRe.ReplaceAllString(text, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

// extractIndexReference pulls a trailing ", see [also] TARGET" clause out
// of text, returning the remainder and the reference payload ("" if none).
func extractIndexReference(text string) (string, string) {
	loc := indexRefRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, ""
	}
	prefix := text[loc[2]:loc[3]]
	target := strings.TrimSpace(text[loc[4]:loc[5]])
	remainder := strings.TrimRight(text[:loc[0]], ", ")
	return remainder, strings.TrimSpace(prefix + " " + target)
}

// extractIndexPages pulls a trailing run of page numbers/separators out of
// text, returning the remainder and the pages payload ("" if none).
func extractIndexPages(text string) (string, string) {
	loc := indexPageRe.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	pages := strings.TrimSpace(text[loc[0]:])
	if !containsDigit(pages) {
		return text, ""
	}
	remainder := strings.TrimRight(text[:loc[0]], ",;: ")
	return remainder, pages
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
