package analyzer

import (
	"fmt"

	"github.com/colorscope/colorscope/internal/imaging"
)

// AnalysisError reports a grid that cannot be sampled.
type AnalysisError struct {
	Msg string
}

func (e *AnalysisError) Error() string {
	return "analyze color: " + e.Msg
}

// Analyze runs AnalyzeColor with DefaultROIHalfWidth.
func Analyze(grid *imaging.PixelGrid) (ColorResult, error) {
	return AnalyzeColor(grid, DefaultROIHalfWidth)
}

// AnalyzeColor names the color at the center of grid.
//
// Every pixel is converted to HSV, then the channels are averaged
// independently over the sampling window (see SamplingWindow) and truncated
// to integers. The mean is classified with ClassifyHSV and converted back to
// RGB and hex.
//
// The result depends only on grid and roiHalfWidth; the grid is not modified.
//
// # Errors
//
//   - Returns *AnalysisError if grid is nil or empty
//   - Returns *AnalysisError if the sampling window has zero area
func AnalyzeColor(grid *imaging.PixelGrid, roiHalfWidth int) (ColorResult, error) {
	if grid.Empty() {
		return ColorResult{}, &AnalysisError{Msg: "empty image"}
	}

	win := SamplingWindow(grid.Width, grid.Height, roiHalfWidth)
	if win.Empty() {
		return ColorResult{}, &AnalysisError{
			Msg: fmt.Sprintf("sampling window (%d,%d)-(%d,%d) has zero area", win.X1, win.Y1, win.X2, win.Y2),
		}
	}

	return Describe(MeanHSV(hsvPlane(grid), grid.Width, win)), nil
}

// MeanHSV averages each channel of plane over win, truncating toward zero.
// plane is a row-major HSV image of the given width; win must be non-empty
// and inside the plane.
func MeanHSV(plane []HSV, width int, win Window) HSV {
	var sumH, sumS, sumV int
	for y := win.Y1; y < win.Y2; y++ {
		for _, px := range plane[y*width+win.X1 : y*width+win.X2] {
			sumH += px.H
			sumS += px.S
			sumV += px.V
		}
	}
	n := win.Area()
	return HSV{H: sumH / n, S: sumS / n, V: sumV / n}
}
