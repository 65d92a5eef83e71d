package epubfront

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// transformState tracks the current chapter/section containers while
// walking the aggregate HTML tree in document order.
type transformState struct {
	root           *etree.Element
	currentChapter *etree.Element
	currentSect1   *etree.Element
	currentSect2   *etree.Element
	currentList    *etree.Element
	currentListTag string
}

// container returns the innermost open structural element new content
// should be appended to.
func (s *transformState) container() *etree.Element {
	switch {
	case s.currentSect2 != nil:
		return s.currentSect2
	case s.currentSect1 != nil:
		return s.currentSect1
	case s.currentChapter != nil:
		return s.currentChapter
	default:
		return s.root
	}
}

func (s *transformState) closeList() {
	s.currentList = nil
	s.currentListTag = ""
}

// Transform walks an aggregate HTML body (as produced by AggregateSpine) and
// builds a DocBook tree under rootName, per spec.md §4.12: h1/h2/h3 map to
// chapter/sect1/sect2 titles, lists to itemized/ordered lists, paragraphs to
// <para>, images to <figure>.
func Transform(body *html.Node, rootName string) *etree.Element {
	root := etree.NewElement(rootName)
	state := &transformState{root: root}

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		walkTopLevel(c, state)
	}

	return root
}

func walkTopLevel(n *html.Node, state *transformState) {
	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.H1:
		title := textOf(n)
		if title == "" {
			return
		}
		chapter := state.root.CreateElement("chapter")
		ensureTitleEl(chapter, title)
		state.currentChapter = chapter
		state.currentSect1 = nil
		state.currentSect2 = nil
		state.closeList()

	case atom.H2:
		title := textOf(n)
		if title == "" {
			return
		}
		container := state.currentChapter
		if container == nil {
			container = state.root
		}
		sect1 := container.CreateElement("sect1")
		ensureTitleEl(sect1, title)
		state.currentSect1 = sect1
		state.currentSect2 = nil
		state.closeList()

	case atom.H3:
		title := textOf(n)
		if title == "" {
			return
		}
		container := state.currentSect1
		if container == nil {
			container = state.container()
		}
		sect2 := container.CreateElement("sect2")
		ensureTitleEl(sect2, title)
		state.currentSect2 = sect2
		state.closeList()

	case atom.Ul, atom.Ol:
		items := listItems(n)
		if len(items) == 0 {
			return
		}
		tag := "itemizedlist"
		if n.DataAtom == atom.Ol {
			tag = "orderedlist"
		}
		list := state.container().CreateElement(tag)
		for _, item := range items {
			listitem := list.CreateElement("listitem")
			para := listitem.CreateElement("para")
			para.SetText(item)
		}
		state.closeList()

	case atom.Img, atom.Image:
		src := imgSrc(n)
		if src == "" {
			return
		}
		figure := state.container().CreateElement("figure")
		mediaobject := figure.CreateElement("mediaobject")
		imageobject := mediaobject.CreateElement("imageobject")
		imagedata := imageobject.CreateElement("imagedata")
		imagedata.CreateAttr("fileref", src)
		state.closeList()

	case atom.P, atom.Div, atom.Blockquote:
		text := textOf(n)
		if text == "" {
			return
		}
		para := state.container().CreateElement("para")
		para.SetText(text)
		state.closeList()

	default:
		text := textOf(n)
		if text != "" {
			para := state.container().CreateElement("para")
			para.SetText(text)
			state.closeList()
		}
	}
}

func ensureTitleEl(parent *etree.Element, text string) {
	title := parent.CreateElement("title")
	title.SetText(text)
}

func listItems(n *html.Node) []string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			if text := textOf(c); text != "" {
				items = append(items, text)
			}
		}
	}
	return items
}

func imgSrc(n *html.Node) string {
	key := "src"
	if n.DataAtom == atom.Image {
		key = "href"
	}
	for _, attr := range n.Attr {
		if attr.Key == key || (n.DataAtom == atom.Image && attr.Key == "xlink:href") {
			return attr.Val
		}
	}
	return ""
}

// textOf collapses n's text content onto a single line, dropping internal
// newlines introduced by block-level descendants.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
