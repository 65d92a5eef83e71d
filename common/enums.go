// Package common holds small value types and error plumbing shared across
// every pipeline stage, kept deliberately dependency-free so both the
// extraction and packaging sides of the pipeline can import it without
// cycles.
package common

// Label identifies the semantic kind assigned to a Block by the Heuristic
// Labeler (and possibly overridden by the Classifier Shim). See spec.md §3.
type Label string

const (
	LabelBookTitle Label = "book_title"
	LabelTOC       Label = "toc"
	LabelChapter   Label = "chapter"
	LabelSection   Label = "section"
	LabelPara      Label = "para"
	LabelListItem  Label = "list_item"
	LabelFigure    Label = "figure"
	LabelTable     Label = "table"
	LabelCaption   Label = "caption"
	LabelFootnote  Label = "footnote"
)

// String implements fmt.Stringer.
func (l Label) String() string { return string(l) }

// IsValid reports whether l is one of the recognized labels.
func (l Label) IsValid() bool {
	switch l {
	case LabelBookTitle, LabelTOC, LabelChapter, LabelSection, LabelPara,
		LabelListItem, LabelFigure, LabelTable, LabelCaption, LabelFootnote:
		return true
	default:
		return false
	}
}

// ListType distinguishes ordered (numbered/lettered) from itemized (bulleted)
// list items, per spec.md §4.6 rule 5.
type ListType string

const (
	ListTypeOrdered  ListType = "ordered"
	ListTypeItemized ListType = "itemized"
)

// ChapterRole captures the label-specific chapter_role field (spec.md §3),
// e.g. marking the back-of-book index chapter.
type ChapterRole string

const (
	ChapterRoleIndex ChapterRole = "index"
	ChapterRoleTOC   ChapterRole = "toc"
)

// QA flag vocabulary (spec.md §3 "QA page metric").
const (
	FlagMissingOutputPage = "missing_output_page"
	FlagTextMismatch      = "text_mismatch"
	FlagCharCountDiff     = "char_count_diff"
)
