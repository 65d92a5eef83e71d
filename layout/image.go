package layout

// ImageEntry is a positioned image reference found on a page, carried
// forward unchanged so the Heuristic Labeler can turn it into a figure
// block and the Packager can later rewrite its src.
type ImageEntry struct {
	PageNum int
	Src     string
	Top     float64
	Left    float64
	Width   float64
	Height  float64
}
