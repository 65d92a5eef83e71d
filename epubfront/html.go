package epubfront

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resolveRelativePath resolves href relative to the directory of basePath,
// both archive-internal paths. Returns "" if the result would escape the
// archive root.
func resolveRelativePath(basePath, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	cleaned := path.Clean(path.Join(path.Dir(basePath), href))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ""
	}
	return cleaned
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// rewriteImageNode rewrites <img src> and <image href|xlink:href> attributes
// from paths relative to itemPath into archive-relative paths.
func rewriteImageNode(n *html.Node, itemPath string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", itemPath)
		case atom.Image:
			rewriteAttr(n, "href", itemPath)
			rewriteAttr(n, "xlink:href", itemPath)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImageNode(c, itemPath)
	}
}

func rewriteAttr(n *html.Node, key, itemPath string) {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		if attr.Val == "" || strings.Contains(attr.Val, "://") || strings.HasPrefix(attr.Val, "data:") {
			continue
		}
		if resolved := resolveRelativePath(itemPath, attr.Val); resolved != "" {
			n.Attr[i].Val = resolved
		}
	}
}

// cloneTree deep-copies an html.Node subtree, detached from its original
// parent/siblings, so it can be reparented into the synthesized aggregate.
func cloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
		Attr:     append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneTree(c))
	}
	return clone
}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Hr: true,
}

var skipTags = map[atom.Atom]bool{atom.Script: true, atom.Style: true}

// extractText flattens n's subtree to plain text, inserting a newline at
// block-tag boundaries and skipping script/style content.
func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skipTags[node.DataAtom] {
			return
		}
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode && blockTags[node.DataAtom] {
			b.WriteByte('\n')
		}
	}
	walk(n)
	lines := strings.Split(b.String(), "\n")
	var out []string
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return strings.Join(out, "\n")
}
