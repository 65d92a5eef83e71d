// Package layout turns a pdf2xml-shaped positional document into ordered
// Line and image entries, grouping text runs that share a vertical position
// into a single Line the way a real-world PDF rasterizer's text-selection
// pass would.
package layout

import "sort"

// TextSegment is one positioned run of text within a Line.
type TextSegment struct {
	Text     string
	Left     float64
	Width    float64
	FontSize float64
}

// Line is an assembled row of text on a page, built from one or more
// TextSegments that share a top coordinate within tolerance.
type Line struct {
	PageNum    int
	PageWidth  float64
	PageHeight float64
	Top        float64
	Left       float64
	Height     float64
	FontSize   float64
	Text       string
	Segments   []TextSegment
}

// Right returns the rightmost edge among the line's segments.
func (l *Line) Right() float64 {
	if len(l.Segments) == 0 {
		return l.Left
	}
	right := l.Segments[0].Left + l.Segments[0].Width
	for _, seg := range l.Segments[1:] {
		if r := seg.Left + seg.Width; r > right {
			right = r
		}
	}
	return right
}

// ColumnPositions returns the canonical left x-coordinates of text columns
// within the line, clustering segment lefts with a 6-point tolerance and
// smoothing each cluster toward its running average to absorb jitter.
func (l *Line) ColumnPositions() []float64 {
	const tolerance = 6.0

	segs := make([]TextSegment, len(l.Segments))
	copy(segs, l.Segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Left < segs[j].Left })

	var positions []float64
	for _, seg := range segs {
		placed := false
		for i, v := range positions {
			if abs(v-seg.Left) <= tolerance {
				positions[i] = (v + seg.Left) / 2.0
				placed = true
				break
			}
		}
		if !placed {
			positions = append(positions, seg.Left)
		}
	}
	sort.Float64s(positions)
	return positions
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// cleanJoin builds a line's full text by joining segments left to right,
// inserting a single space between adjacent segments whose edges don't
// already carry one.
func cleanJoin(segments []TextSegment) string {
	segs := make([]TextSegment, len(segments))
	copy(segs, segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Left < segs[j].Left })

	var out []byte
	for _, seg := range segs {
		if seg.Text == "" {
			continue
		}
		if len(out) > 0 && out[len(out)-1] != ' ' && seg.Text[0] != ' ' {
			out = append(out, ' ')
		}
		out = append(out, seg.Text...)
	}
	return string(out)
}
