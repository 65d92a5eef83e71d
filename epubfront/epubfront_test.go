package epubfront

import (
	"archive/zip"
	"bytes"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func buildTestEPUB(t *testing.T) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid">
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="img1" href="images/fig1.jpg" media-type="image/jpeg"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`,
		"OEBPS/ch1.xhtml": `<html><body>
<h1>Chapter One</h1>
<p>First paragraph.</p>
<ul><li>Item A</li><li>Item B</li></ul>
<img src="images/fig1.jpg"/>
</body></html>`,
		"OEBPS/ch2.xhtml": `<html><body>
<h1>Chapter Two</h1>
<h2>A Section</h2>
<p>Second paragraph.</p>
</body></html>`,
		"OEBPS/images/fig1.jpg": "fake-jpeg-bytes",
	}

	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	return zr
}

func TestResolveOPFPathPrefersPackageMediaType(t *testing.T) {
	zr := buildTestEPUB(t)
	opfPath, err := ResolveOPFPath(zr)
	if err != nil {
		t.Fatalf("ResolveOPFPath: %v", err)
	}
	if opfPath != "OEBPS/content.opf" {
		t.Errorf("opfPath = %q, want OEBPS/content.opf", opfPath)
	}
}

func TestParseOPFResolvesSpineToArchiveRelativePaths(t *testing.T) {
	zr := buildTestEPUB(t)
	f := findZipFile(zr, "OEBPS/content.opf")
	data, _ := readZipFile(f)

	pkg, err := ParseOPF(data, opfDirOf("OEBPS/content.opf"))
	if err != nil {
		t.Fatalf("ParseOPF: %v", err)
	}
	if len(pkg.Spine) != 2 {
		t.Fatalf("Spine = %v, want 2 entries", pkg.Spine)
	}
	if pkg.Spine[0] != "OEBPS/ch1.xhtml" || pkg.Spine[1] != "OEBPS/ch2.xhtml" {
		t.Errorf("Spine = %v", pkg.Spine)
	}
	if pkg.Manifest["img1"].Href != "images/fig1.jpg" {
		t.Errorf("manifest img1 href = %q", pkg.Manifest["img1"].Href)
	}
}

func TestAggregateSpineRewritesImagesAndExtractsText(t *testing.T) {
	zr := buildTestEPUB(t)
	_, aggregate, err := Load(zr, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(aggregate.Pages) != 2 {
		t.Fatalf("Pages = %d, want 2", len(aggregate.Pages))
	}
	if aggregate.Pages[0].PageNum != 1 || aggregate.Pages[1].PageNum != 2 {
		t.Errorf("unexpected page numbers: %+v", aggregate.Pages)
	}
	if aggregate.Pages[0].RawText == "" {
		t.Errorf("expected non-empty text for page 1")
	}

	foundSrc := findImgSrc(aggregate.Body)
	if foundSrc != "OEBPS/images/fig1.jpg" {
		t.Errorf("rewritten img src = %q, want OEBPS/images/fig1.jpg", foundSrc)
	}
}

func findImgSrc(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for _, attr := range n.Attr {
			if attr.Key == "src" {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if src := findImgSrc(c); src != "" {
			return src
		}
	}
	return ""
}

func TestAggregateSpineStrictModeAbortsOnEmptyItem(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mustWrite(t, zw, "META-INF/container.xml", `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`)
	mustWrite(t, zw, "content.opf", `<?xml version="1.0"?>
<package><manifest><item id="empty" href="empty.xhtml" media-type="application/xhtml+xml"/></manifest>
<spine><itemref idref="empty"/></spine></package>`)
	mustWrite(t, zw, "empty.xhtml", `<html><body></body></html>`)
	zw.Close()
	zr, _ := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))

	if _, _, err := Load(zr, true); err == nil {
		t.Fatalf("expected strict-mode error for empty spine item")
	}
}

func TestTransformMapsHeadingsListsAndImages(t *testing.T) {
	zr := buildTestEPUB(t)
	_, aggregate, err := Load(zr, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	root := Transform(aggregate.Body, "book")
	chapters := root.SelectElements("chapter")
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].SelectElement("title").Text() != "Chapter One" {
		t.Errorf("chapter 1 title = %q", chapters[0].SelectElement("title").Text())
	}
	if len(chapters[0].SelectElements("itemizedlist")) != 1 {
		t.Errorf("expected an itemizedlist in chapter 1")
	}
	if len(chapters[0].SelectElements("figure")) != 1 {
		t.Errorf("expected a figure in chapter 1")
	}
	if len(chapters[1].SelectElements("sect1")) != 1 {
		t.Errorf("expected a sect1 in chapter 2")
	}
}

func TestZipMediaFetcherFallsBackToLeafName(t *testing.T) {
	zr := buildTestEPUB(t)
	fetch := ZipMediaFetcher(zr)

	if data := fetch("OEBPS/images/fig1.jpg"); string(data) != "fake-jpeg-bytes" {
		t.Errorf("direct path fetch = %q", data)
	}
	if data := fetch("media/fig1.jpg"); string(data) != "fake-jpeg-bytes" {
		t.Errorf("leaf-name fallback fetch = %q", data)
	}
	if data := fetch("nope.jpg"); data != nil {
		t.Errorf("expected nil for unmatched file, got %q", data)
	}
}

func mustWrite(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
