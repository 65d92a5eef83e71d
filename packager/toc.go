package packager

import "github.com/beevik/etree"

// PopulateTOCFragment replaces the toc fragment's body with a generated
// itemized list of the chapter fragments, one listitem per chapter naming
// its title and filename.
func PopulateTOCFragment(tocFragment *ChapterFragment, chapterFragments []ChapterFragment) {
	element := tocFragment.Element
	desiredTitle := tocFragment.Title
	if desiredTitle == "" {
		desiredTitle = "Table of Contents"
	}

	title := element.SelectElement("title")
	if title == nil {
		title = element.CreateElement("title")
	}
	title.SetText(desiredTitle)

	for _, child := range element.ChildElements() {
		if child == title {
			continue
		}
		element.RemoveChild(child)
	}

	itemized := element.CreateElement("itemizedlist")
	for _, fragment := range chapterFragments {
		listitem := itemized.CreateElement("listitem")
		para := listitem.CreateElement("para")
		chapterTitle := fragment.Title
		if chapterTitle == "" {
			chapterTitle = fragment.Filename
		}
		para.SetText(chapterTitle + " (" + fragment.Filename + ")")
	}
}
