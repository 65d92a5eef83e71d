package layout

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func buildDoc(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	return doc
}

const samplePDF2XML = `<pdf2xml>
<page number="1" width="612" height="792">
<fontspec id="0" size="24" family="Arial"/>
<fontspec id="1" size="10" family="Arial"/>
<text top="50" left="72" width="200" height="30" font="0">Chapter One</text>
<text top="120" left="72" width="80" height="12" font="1">Hello, </text>
<text top="120" left="110" width="80" height="12" font="1">world.</text>
<image top="300" left="72" width="100" height="100" src="images/fig1.png"/>
</page>
</pdf2xml>`

func TestParseGroupsSegmentsIntoLinesByTopTolerance(t *testing.T) {
	doc := buildDoc(t, samplePDF2XML)
	entries, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (2 lines + 1 image), got %d: %+v", len(entries), entries)
	}

	title := entries[0]
	if title.IsImage || title.Line.Text != "Chapter One" {
		t.Errorf("entry 0 = %+v, want title line", title)
	}
	if title.Line.FontSize != 24 {
		t.Errorf("title font size = %v, want 24 (from fontspec)", title.Line.FontSize)
	}

	body := entries[1]
	if body.IsImage {
		t.Fatalf("entry 1 should be a line, got image")
	}
	if !strings.Contains(body.Line.Text, "Hello,") || !strings.Contains(body.Line.Text, "world.") {
		t.Errorf("body line text = %q, want both segments joined", body.Line.Text)
	}

	img := entries[2]
	if !img.IsImage || img.Image.Src != "images/fig1.png" {
		t.Errorf("entry 2 = %+v, want image fig1.png", img)
	}
}

func TestParseSkipsBlankTextNodes(t *testing.T) {
	doc := buildDoc(t, `<pdf2xml><page number="1" width="1" height="1">
<text top="10" left="10" width="5" height="5">   </text>
<text top="20" left="10" width="5" height="5">real</text>
</page></pdf2xml>`)
	entries, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Line.Text != "real" {
		t.Errorf("expected only the non-blank line, got %+v", entries)
	}
}

func TestParseReturnsErrorWithoutRoot(t *testing.T) {
	doc := etree.NewDocument()
	if _, err := Parse(doc); err == nil {
		t.Error("expected error for a document with no root element")
	}
}

func TestLineColumnPositionsClustersWithinTolerance(t *testing.T) {
	line := Line{Segments: []TextSegment{
		{Text: "a", Left: 72.0},
		{Text: "b", Left: 75.0},
		{Text: "c", Left: 200.0},
	}}
	positions := line.ColumnPositions()
	if len(positions) != 2 {
		t.Fatalf("expected 2 clustered columns, got %d: %v", len(positions), positions)
	}
}

func TestLineRightIsRightmostSegmentEdge(t *testing.T) {
	line := Line{Segments: []TextSegment{
		{Left: 10, Width: 5},
		{Left: 20, Width: 30},
	}}
	if got, want := line.Right(), 50.0; got != want {
		t.Errorf("Right() = %v, want %v", got, want)
	}
}
