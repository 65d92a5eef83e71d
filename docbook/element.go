package docbook

import "github.com/beevik/etree"

// ensureTitle sets parent's <title> child to text, creating it as the
// first child if absent — the Tree Builder's data model requires title to
// always be the first child of its container.
func ensureTitle(parent *etree.Element, text string) *etree.Element {
	if title := parent.SelectElement("title"); title != nil {
		title.SetText(text)
		return title
	}
	title := etree.NewElement("title")
	title.SetText(text)
	if len(parent.Child) > 0 {
		parent.InsertChild(parent.Child[0], title)
	} else {
		parent.AddChild(title)
	}
	return title
}

func appendPara(parent *etree.Element, text string) *etree.Element {
	para := parent.CreateElement("para")
	para.SetText(text)
	return para
}

// attachCaption attaches text as a <caption> child of target when target is
// a figure/informaltable/table; returns false (nothing attached) otherwise,
// in which case the caller must degrade the block to a paragraph.
func attachCaption(target *etree.Element, text string) bool {
	if target == nil {
		return false
	}
	switch target.Tag {
	case "figure", "informaltable", "table":
	default:
		return false
	}
	caption := target.SelectElement("caption")
	if caption == nil {
		caption = target.CreateElement("caption")
	}
	caption.SetText(text)
	return true
}
