package packager

import (
	"fmt"

	"github.com/beevik/etree"
)

// bodyPart is one top-level item of the shallow Book.xml body: either a
// retained element (front matter such as bookinfo) or a placeholder for an
// entity reference that must be spliced in as literal "&Entity;" text,
// since beevik/etree has no first-class entity-reference token.
type bodyPart struct {
	element *etree.Element
	entity  string
}

// BookShell is root, minus its chapter-kind children, plus a record of
// where those children's entity references belong.
type BookShell struct {
	Tag   string
	Attrs []etree.Attr
	Parts []bodyPart
}

// SplitRoot separates root's chapter-kind children into standalone
// fragments, leaving behind a shell that references them by entity. When no
// fragment-worthy child is found, everything but bookinfo/info is folded
// into a single synthetic Ch001 chapter, mirroring the source's fallback.
func SplitRoot(root *etree.Element) (*BookShell, []ChapterFragment) {
	shell := &BookShell{Tag: root.Tag, Attrs: append([]etree.Attr(nil), root.Attr...)}
	var fragments []ChapterFragment
	chapterIndex := 0

	for _, child := range root.ChildElements() {
		switch {
		case child.Tag == "index":
			fragments = append(fragments, ChapterFragment{
				Entity:   "Index",
				Filename: "Index.xml",
				Element:  child.Copy(),
				Kind:     "index",
				Title:    extractTitleText(child),
			})
			shell.Parts = append(shell.Parts, bodyPart{entity: "Index"})

		case isTOCNode(child):
			entityID := "toc"
			title := extractTitleText(child)
			if title == "" {
				title = "Table of Contents"
			}
			fragments = append(fragments, ChapterFragment{
				Entity:   entityID,
				Filename: "TableOfContents.xml",
				Element:  child.Copy(),
				Kind:     "toc",
				Title:    title,
			})
			shell.Parts = append(shell.Parts, bodyPart{entity: entityID})

		case isChapterNode(child):
			chapterIndex++
			entityID := chapterEntityID(chapterIndex)
			fragments = append(fragments, ChapterFragment{
				Entity:   entityID,
				Filename: entityID + ".xml",
				Element:  child.Copy(),
				Kind:     "chapter",
				Title:    extractTitleText(child),
			})
			shell.Parts = append(shell.Parts, bodyPart{entity: entityID})

		default:
			shell.Parts = append(shell.Parts, bodyPart{element: child.Copy()})
		}
	}

	if len(fragments) == 0 {
		return fallbackSplit(root)
	}
	return shell, fragments
}

// fallbackSplit handles the no-chapter-nodes-found case: everything except
// bookinfo/info is gathered into a single synthetic chapter.
func fallbackSplit(root *etree.Element) (*BookShell, []ChapterFragment) {
	shell := &BookShell{Tag: root.Tag, Attrs: append([]etree.Attr(nil), root.Attr...)}
	wrapper := etree.NewElement("chapter")

	for _, child := range root.ChildElements() {
		if child.Tag == "bookinfo" || child.Tag == "info" {
			shell.Parts = append(shell.Parts, bodyPart{element: child.Copy()})
			continue
		}
		wrapper.AddChild(child.Copy())
	}

	entityID := "Ch001"
	shell.Parts = append(shell.Parts, bodyPart{entity: entityID})
	fragment := ChapterFragment{Entity: entityID, Filename: entityID + ".xml", Element: wrapper, Kind: "chapter"}
	return shell, []ChapterFragment{fragment}
}

func chapterEntityID(index int) string {
	return fmt.Sprintf("Ch%03d", index)
}
