package docbook

import (
	"strconv"

	"github.com/beevik/etree"

	"docbc/common"
)

// Build consumes blocks in document order and returns the root DocBook
// element, following the transition table in spec.md §4.8. blocks should
// already carry their classifier-resolved label via EffectiveLabel.
func Build(blocks []common.Block, rootName string) *etree.Element {
	root := etree.NewElement(rootName)
	state := &builderState{}

	for _, block := range blocks {
		label := block.EffectiveLabel()
		if label == "" {
			label = common.LabelPara
		}
		text := block.Text

		if state.currentIndex != nil && label == common.LabelPara {
			if state.handleIndexPara(block) {
				state.lastStructure = state.currentIndex
				continue
			}
		}

		switch label {
		case common.LabelBookTitle:
			if text == "" {
				continue
			}
			ensureTitle(root, text)
			state.closeList()
			state.lastStructure = root

		case common.LabelTOC:
			if text == "" {
				continue
			}
			chapter := root.CreateElement("chapter")
			chapter.CreateAttr("role", "toc")
			ensureTitle(chapter, text)
			state.currentChapter = chapter
			state.currentSection = nil
			state.closeList()
			state.lastStructure = chapter

		case common.LabelChapter:
			if text == "" {
				continue
			}
			role := ""
			if block.Chapter != nil {
				role = string(block.Chapter.Role)
			}
			if role == string(common.ChapterRoleIndex) {
				index := root.CreateElement("index")
				ensureTitle(index, text)
				state.currentIndex = index
				state.indexState = newIndexState()
				state.currentChapter = nil
				state.currentSection = nil
				state.closeList()
				state.lastStructure = index
				continue
			}

			state.currentIndex = nil
			state.indexState = nil
			chapter := root.CreateElement("chapter")
			if role != "" {
				chapter.CreateAttr("role", role)
			}
			ensureTitle(chapter, text)
			state.currentChapter = chapter
			state.currentSection = nil
			state.closeList()
			state.lastStructure = chapter

		case common.LabelSection:
			if text == "" {
				continue
			}
			if state.currentIndex != nil {
				if state.handleIndexPara(block) {
					state.lastStructure = state.currentIndex
					continue
				}
			}
			container := state.currentChapter
			if container == nil {
				container = root
			}
			section := container.CreateElement("sect1")
			ensureTitle(section, text)
			state.currentSection = section
			state.closeList()
			state.lastStructure = section

		case common.LabelListItem:
			if text == "" {
				continue
			}
			container := state.currentContainer(root)
			listType := common.ListTypeItemized
			if block.List != nil && block.List.Type != "" {
				listType = block.List.Type
			}
			tag := "itemizedlist"
			if listType == common.ListTypeOrdered {
				tag = "orderedlist"
			}
			if state.currentList == nil || state.currentListTag != tag {
				state.currentList = container.CreateElement(tag)
				state.currentListTag = tag
			}
			listitem := state.currentList.CreateElement("listitem")
			appendPara(listitem, text)
			state.lastStructure = state.currentList

		case common.LabelFigure:
			if block.Figure == nil || block.Figure.Src == "" {
				continue
			}
			container := state.currentContainer(root)
			figure := container.CreateElement("figure")
			mediaobject := figure.CreateElement("mediaobject")
			imageobject := mediaobject.CreateElement("imageobject")
			imagedata := imageobject.CreateElement("imagedata")
			imagedata.CreateAttr("fileref", block.Figure.Src)
			state.lastStructure = figure
			state.closeList()

		case common.LabelTable:
			if block.Table == nil || len(block.Table.Rows) == 0 {
				continue
			}
			container := state.currentContainer(root)
			rows := block.Table.Rows
			cols := len(rows[0])
			table := container.CreateElement("informaltable")
			tgroup := table.CreateElement("tgroup")
			tgroup.CreateAttr("cols", strconv.Itoa(cols))
			tbody := tgroup.CreateElement("tbody")
			for _, row := range rows {
				rowEl := tbody.CreateElement("row")
				for _, cell := range row {
					entry := rowEl.CreateElement("entry")
					entry.SetText(cell)
				}
			}
			state.lastStructure = table
			state.closeList()

		case common.LabelCaption:
			if text == "" {
				continue
			}
			if attachCaption(state.lastStructure, text) {
				continue
			}
			// Fall back to paragraph when there is nothing to attach to.
			appendParaBlock(root, state, text)

		case common.LabelFootnote:
			if text == "" {
				continue
			}
			container := state.currentContainer(root)
			footnote := container.CreateElement("footnote")
			appendPara(footnote, text)
			state.lastStructure = footnote
			state.closeList()

		case common.LabelPara:
			if text == "" {
				continue
			}
			appendParaBlock(root, state, text)

		default:
			if text != "" {
				appendParaBlock(root, state, text)
			}
		}
	}

	return root
}

func appendParaBlock(root *etree.Element, state *builderState, text string) {
	container := state.currentContainer(root)
	appendPara(container, text)
	state.lastStructure = container
	state.closeList()
}
