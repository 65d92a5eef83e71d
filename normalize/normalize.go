// Package normalize applies the configured text normalizations to raw
// extractor output: whitespace collapse, safe line-ending de-hyphenation,
// and ligature preservation. Every rule is idempotent in isolation and the
// pipeline as a whole guarantees normalize(normalize(x)) == normalize(x).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"docbc/common"
	"docbc/config"
)

var dehyphenateRe = regexp.MustCompile(`(\pL+)-\n(\pL+)`)

// Pages runs Apply over every page's RawText in place, filling NormText,
// Checksum and Events, and returns the same slice for chaining.
func Pages(pages []common.PageText, cfg *config.NormalizationConfig) []common.PageText {
	for i := range pages {
		text, events := Apply(pages[i].RawText, cfg)
		pages[i].NormText = text
		pages[i].Events = events
		pages[i].Checksum = common.Checksum(text)
	}
	return pages
}

// Apply runs the configured rules over raw in order and returns the
// normalized text along with the ordered list of events for any rule that
// actually changed the string.
func Apply(raw string, cfg *config.NormalizationConfig) (string, []common.NormalizationEvent) {
	var events []common.NormalizationEvent
	text := raw

	// De-hyphenation must run before whitespace collapse: it matches a
	// literal line break between the word halves, and collapse would fold
	// that break into a plain space first, leaving nothing for the regex to
	// match.
	if cfg.DehyphenateLineEndings == "safe" {
		if out, changed := dehyphenate(text); changed {
			events = append(events, common.NormalizationEvent{Rule: "safe_dehyphenate", Before: text, After: out})
			text = out
		}
	}

	if cfg.CollapseInternalWhitespace {
		if out, changed := collapseWhitespace(text); changed {
			events = append(events, common.NormalizationEvent{Rule: "collapse_internal_whitespace", Before: text, After: out})
			text = out
		}
	}

	// preserve_ligatures is a no-op placeholder: ligature characters such as
	// "ﬁ"/"ﬂ" simply pass through untouched, whatever the extractor handed
	// us. The flag exists so a future rule has somewhere to live.
	_ = cfg.PreserveLigatures

	return text, events
}

// collapseWhitespace replaces every run of whitespace with a single space.
func collapseWhitespace(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	changed := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			if r != ' ' {
				changed = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	out := b.String()
	if out != s {
		changed = true
	}
	return out, changed
}

// dehyphenate joins WORD1-\nWORD2 into WORD1WORD2 unless both word parts are
// fully uppercase, in which case the hyphen is preserved to protect
// acronyms and compound proper nouns. Matching and the uppercase check are
// both case-sensitive.
func dehyphenate(s string) (string, bool) {
	changed := false
	out := dehyphenateRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := dehyphenateRe.FindStringSubmatch(m)
		word1, word2 := sub[1], sub[2]
		if isAllUpper(word1) && isAllUpper(word2) {
			return m
		}
		changed = true
		return word1 + word2
	})
	return out, changed
}

func isAllUpper(s string) bool {
	seenLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		seenLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return seenLetter
}
