package docbook

import (
	"testing"

	"docbc/common"
)

func block(label common.Label, text string) common.Block {
	return common.Block{Label: label, Text: text, ClassifierLabel: label}
}

func TestBuildNestsChapterSectionParaAndList(t *testing.T) {
	blocks := []common.Block{
		block(common.LabelBookTitle, "My Great Book"),
		block(common.LabelChapter, "Chapter One"),
		block(common.LabelPara, "An opening paragraph."),
		block(common.LabelSection, "A Subsection"),
		{Label: common.LabelListItem, ClassifierLabel: common.LabelListItem, Text: "first", List: &common.ListPayload{Type: common.ListTypeItemized}},
		{Label: common.LabelListItem, ClassifierLabel: common.LabelListItem, Text: "second", List: &common.ListPayload{Type: common.ListTypeItemized}},
	}
	root := Build(blocks, "book")

	if title := root.SelectElement("title"); title == nil || title.Text() != "My Great Book" {
		t.Fatalf("expected book title, got %v", root.SelectElement("title"))
	}
	chapter := root.SelectElement("chapter")
	if chapter == nil {
		t.Fatal("expected a chapter element")
	}
	if got := chapter.SelectElement("title").Text(); got != "Chapter One" {
		t.Errorf("chapter title = %q", got)
	}
	if len(chapter.SelectElements("para")) != 1 {
		t.Errorf("expected one direct para under chapter, got %d", len(chapter.SelectElements("para")))
	}
	sect1 := chapter.SelectElement("sect1")
	if sect1 == nil {
		t.Fatal("expected a sect1 element under the chapter")
	}
	list := sect1.SelectElement("itemizedlist")
	if list == nil || len(list.SelectElements("listitem")) != 2 {
		t.Fatalf("expected an itemizedlist with 2 items under sect1, got %+v", list)
	}
}

func TestBuildGroupsConsecutiveListItemsUnderOneList(t *testing.T) {
	blocks := []common.Block{
		{Label: common.LabelListItem, ClassifierLabel: common.LabelListItem, Text: "a", List: &common.ListPayload{Type: common.ListTypeOrdered}},
		{Label: common.LabelListItem, ClassifierLabel: common.LabelListItem, Text: "b", List: &common.ListPayload{Type: common.ListTypeOrdered}},
		block(common.LabelPara, "breaks the list"),
		{Label: common.LabelListItem, ClassifierLabel: common.LabelListItem, Text: "c", List: &common.ListPayload{Type: common.ListTypeOrdered}},
	}
	root := Build(blocks, "book")

	lists := root.SelectElements("orderedlist")
	if len(lists) != 2 {
		t.Fatalf("expected the intervening paragraph to split the list into 2, got %d", len(lists))
	}
	if len(lists[0].SelectElements("listitem")) != 2 {
		t.Errorf("expected first list to have 2 items")
	}
}

func TestBuildAttachesFigureUnderCurrentContainer(t *testing.T) {
	blocks := []common.Block{
		block(common.LabelChapter, "Chapter One"),
		{Label: common.LabelFigure, ClassifierLabel: common.LabelFigure, Figure: &common.FigurePayload{Src: "images/fig1.png"}},
	}
	root := Build(blocks, "book")
	chapter := root.SelectElement("chapter")
	figure := chapter.SelectElement("figure")
	if figure == nil {
		t.Fatal("expected a figure under the chapter")
	}
	imagedata := figure.FindElement("mediaobject/imageobject/imagedata")
	if imagedata == nil || imagedata.SelectAttrValue("fileref", "") != "images/fig1.png" {
		t.Errorf("imagedata fileref not wired correctly: %+v", imagedata)
	}
}

func TestBuildAttachesCaptionToPrecedingFigure(t *testing.T) {
	blocks := []common.Block{
		{Label: common.LabelFigure, ClassifierLabel: common.LabelFigure, Figure: &common.FigurePayload{Src: "fig1.png"}},
		block(common.LabelCaption, "Figure 1: a diagram"),
	}
	root := Build(blocks, "book")
	figure := root.SelectElement("figure")
	caption := figure.SelectElement("caption")
	if caption == nil || caption.Text() != "Figure 1: a diagram" {
		t.Fatalf("expected caption attached to figure, got %+v", figure)
	}
}

func TestBuildDegradesOrphanCaptionToParagraph(t *testing.T) {
	blocks := []common.Block{
		block(common.LabelCaption, "Orphan caption text"),
	}
	root := Build(blocks, "book")
	para := root.SelectElement("para")
	if para == nil || para.Text() != "Orphan caption text" {
		t.Fatalf("expected orphan caption to degrade to a paragraph, got %+v", root.ChildElements())
	}
}

func TestBuildRoutesIndexChapterParagraphsThroughIndexState(t *testing.T) {
	blocks := []common.Block{
		{Label: common.LabelChapter, ClassifierLabel: common.LabelChapter, Text: "Index", Chapter: &common.ChapterPayload{Role: common.ChapterRoleIndex}},
		block(common.LabelPara, "A"),
		block(common.LabelPara, "apple, 12"),
	}
	root := Build(blocks, "book")
	index := root.SelectElement("index")
	if index == nil {
		t.Fatal("expected an index element")
	}
	div := index.SelectElement("indexdiv")
	if div == nil {
		t.Fatal("expected an indexdiv under the index")
	}
	entry := div.SelectElement("indexentry")
	if entry == nil || entry.SelectElement("primaryie").Text() != "apple" {
		t.Fatalf("expected an indexentry for 'apple', got %+v", div.ChildElements())
	}
}
