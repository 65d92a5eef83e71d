package packager

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// serializeElement pretty-prints a single detached element with no XML
// declaration, the building block both Book.xml's shallow body and each
// fragment file are assembled from.
func serializeElement(e *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// WriteBookXML renders the master file: a hand-assembled DOCTYPE with one
// ENTITY declaration per fragment, followed by the shallow body with
// literal "&Entity;" tokens spliced in where chapter-kind children used to
// be. beevik/etree has no entity-reference token, so the splice happens by
// string concatenation around the serialized shallow elements, per spec.
func WriteBookXML(shell *BookShell, rootName, dtdSystem string, fragments []ChapterFragment) (string, error) {
	var header strings.Builder
	header.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&header, "<!DOCTYPE %s SYSTEM \"%s\"[\n", rootName, dtdSystem)
	for _, fragment := range fragments {
		fmt.Fprintf(&header, "        <!ENTITY %s SYSTEM \"%s\">\n", fragment.Entity, fragment.Filename)
	}
	header.WriteString("]>\n\n")

	var body strings.Builder
	fmt.Fprintf(&body, "<%s", shell.Tag)
	for _, attr := range shell.Attrs {
		if attr.Space != "" {
			fmt.Fprintf(&body, " %s:%s=%q", attr.Space, attr.Key, attr.Value)
		} else {
			fmt.Fprintf(&body, " %s=%q", attr.Key, attr.Value)
		}
	}
	body.WriteString(">\n")

	for _, part := range shell.Parts {
		if part.element != nil {
			serialized, err := serializeElement(part.element)
			if err != nil {
				return "", err
			}
			body.WriteString(serialized)
			body.WriteString("\n")
			continue
		}
		fmt.Fprintf(&body, "&%s;\n", part.entity)
	}
	fmt.Fprintf(&body, "</%s>\n", shell.Tag)

	return header.String() + body.String(), nil
}
