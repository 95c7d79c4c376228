package analyzer

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/colorscope/colorscope/internal/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// MaxHue is the largest hue value in the half-degree convention.
const MaxHue = 179

// RGBToHSV converts 8-bit RGB to the 8-bit HSV convention.
//
// Hue degrees are halved and rounded (360 wraps to 0); saturation and value
// are scaled from 0-1 to 0-255 and rounded.
func RGBToHSV(r, g, b uint8) HSV {
	h, s, v := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}.Hsv()

	hh := int(math.Round(h / 2))
	if hh > MaxHue {
		hh -= MaxHue + 1
	}
	return HSV{
		H: hh,
		S: int(math.Round(s * 255)),
		V: int(math.Round(v * 255)),
	}
}

// HSVToRGB converts an 8-bit HSV color back to 8-bit RGB.
//
// This is the only HSV to RGB path in the package, so converting a
// ColorResult's HSV always reproduces its RGB exactly.
func HSVToRGB(c HSV) RGB {
	c = c.Clamped()
	r, g, b := colorful.Hsv(
		float64(c.H)*2,
		float64(c.S)/255.0,
		float64(c.V)/255.0,
	).Clamped().RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}
}

// HexString formats an RGB color as "#RRGGBB" with uppercase digits.
func HexString(c RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", uint8(clamp(c.R, 0, 255)), uint8(clamp(c.G, 0, 255)), uint8(clamp(c.B, 0, 255)))
}

// hsvPlane converts every pixel of grid to HSV, row-major.
// Rows are split across CPUs; the call returns once all rows are done.
func hsvPlane(grid *imaging.PixelGrid) []HSV {
	w := grid.Width
	plane := make([]HSV, w*grid.Height)
	parallel.Line(grid.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := grid.Pix[y*w*3 : (y+1)*w*3]
			for x := 0; x < w; x++ {
				plane[y*w+x] = RGBToHSV(row[x*3], row[x*3+1], row[x*3+2])
			}
		}
	})
	return plane
}
