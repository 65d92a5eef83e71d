package label

import (
	"sort"
	"strings"

	"docbc/common"
	"docbc/layout"
)

// extractTable attempts to grow a table block starting at lines[0]: each
// line must expose ≥2 column_positions and agree with the established
// columns within 25 points. Returns the table block and the number of
// lines it consumed, or (nil, 0) if fewer than 2 rows qualified.
func extractTable(lines []*layout.Line) (*common.Block, int) {
	const minRows = 2

	var rows [][]string
	var columnPositions []float64
	idx := 0

	for idx < len(lines) {
		line := lines[idx]
		cols := line.ColumnPositions()
		if len(cols) < 2 {
			break
		}
		if len(columnPositions) == 0 {
			columnPositions = cols
		} else if len(cols) != len(columnPositions) {
			break
		} else if !columnsMatch(cols, columnPositions) {
			break
		}

		cells := make([]string, len(columnPositions))
		segs := make([]layout.TextSegment, len(line.Segments))
		copy(segs, line.Segments)
		sort.Slice(segs, func(i, j int) bool { return segs[i].Left < segs[j].Left })
		for _, seg := range segs {
			if strings.TrimSpace(seg.Text) == "" {
				continue
			}
			nearest := nearestColumn(columnPositions, seg.Left)
			existing := cells[nearest]
			if existing != "" {
				if !strings.HasSuffix(existing, " ") && !strings.HasPrefix(seg.Text, " ") {
					existing += " "
				}
				cells[nearest] = existing + seg.Text
			} else {
				cells[nearest] = strings.TrimSpace(seg.Text)
			}
		}
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		rows = append(rows, cells)
		idx++

		if idx < len(lines) {
			gap := lines[idx].Top - line.Top
			if gap > maxF(line.Height, lines[idx].Height)*1.8 {
				break
			}
		}
	}

	if len(rows) < minRows {
		return nil, 0
	}

	rowTexts := make([]string, len(rows))
	for i, r := range rows {
		rowTexts[i] = strings.Join(r, " | ")
	}

	minCol, maxCol := columnPositions[0], columnPositions[0]
	for _, c := range columnPositions {
		if c < minCol {
			minCol = c
		}
		if c > maxCol {
			maxCol = c
		}
	}

	last := lines[idx-1]
	block := &common.Block{
		Label: common.LabelTable,
		Text:  strings.Join(rowTexts, "\n"),
		Page:  lines[0].PageNum,
		BBox: common.BBox{
			Top:    lines[0].Top,
			Left:   minCol,
			Width:  maxCol - minCol,
			Height: last.Top - lines[0].Top + last.Height,
		},
		Table: &common.TablePayload{Rows: rows},
	}
	return block, idx
}

func columnsMatch(a, b []float64) bool {
	for i := range a {
		if absF(a[i]-b[i]) > 25 {
			return false
		}
	}
	return true
}

func nearestColumn(positions []float64, left float64) int {
	best := 0
	bestDist := absF(positions[0] - left)
	for i := 1; i < len(positions); i++ {
		if d := absF(positions[i] - left); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
