package analyzer

// DefaultROIHalfWidth is the half width of the sampling square used when the
// caller does not choose one: a 13x13 window around the center pixel.
const DefaultROIHalfWidth = 6

// Window is a rectangular sampling region.
//
// Coordinates follow the image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Window struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// SamplingWindow returns the square [cx-half, cx+half] x [cy-half, cy+half]
// around the image center (width/2, height/2), clamped to the image.
//
// For any image of at least 1x1 and half >= 0 the window contains the center
// pixel, so it is never empty. A negative half width can collapse it.
func SamplingWindow(width, height, half int) Window {
	cx, cy := width/2, height/2
	return Window{
		X1: max(0, cx-half),
		Y1: max(0, cy-half),
		X2: min(width, cx+half+1),
		Y2: min(height, cy+half+1),
	}
}

// Width returns the number of columns in the window, or 0 if it is collapsed.
func (w Window) Width() int {
	return max(0, w.X2-w.X1)
}

// Height returns the number of rows in the window, or 0 if it is collapsed.
func (w Window) Height() int {
	return max(0, w.Y2-w.Y1)
}

// Area returns the number of pixels in the window.
func (w Window) Area() int {
	return w.Width() * w.Height()
}

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool {
	return w.Area() == 0
}
