// Package docbook implements the DocBook Tree Builder: a state machine
// that consumes labeled blocks in document order and emits a DocBook
// element tree, including the nested index sub-state machine for
// back-of-book indexes.
package docbook

import "github.com/beevik/etree"

// builderState is the explicit state the Tree Builder threads through the
// block stream — kept as one type with documented transitions rather than
// ad hoc fields mutated in place (see spec.md §9 design notes).
type builderState struct {
	currentChapter *etree.Element
	currentSection *etree.Element
	currentList    *etree.Element
	currentListTag string
	lastStructure  *etree.Element
	currentIndex   *etree.Element
	indexState     *indexState
}

func (s *builderState) closeList() {
	s.currentList = nil
	s.currentListTag = ""
}

// currentContainer resolves the block's target parent: index > section >
// chapter > root.
func (s *builderState) currentContainer(root *etree.Element) *etree.Element {
	if s.currentIndex != nil {
		return s.currentIndex
	}
	if s.currentSection != nil {
		return s.currentSection
	}
	if s.currentChapter != nil {
		return s.currentChapter
	}
	return root
}
