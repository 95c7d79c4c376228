package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PixelGrid is a decoded image reduced to three 8-bit channels per pixel.
//
// Pixels are stored row-major as R, G, B triplets:
//
//	offset(x, y) = (y*Width + x) * 3
//
// A grid is produced by one decode call and is owned by that call's caller,
// except for grids handed out by GridCache, which are shared and read-only.
type PixelGrid struct {
	// Width is the number of pixel columns.
	Width int

	// Height is the number of pixel rows.
	Height int

	// Pix holds Width*Height*3 bytes in R, G, B order.
	Pix []uint8
}

// NewPixelGrid allocates a black grid of the given size.
//
// Non-positive dimensions yield an empty grid (zero area); callers that need
// a valid grid should check Empty.
func NewPixelGrid(width, height int) *PixelGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Empty reports whether the grid has zero area or inconsistent backing storage.
func (g *PixelGrid) Empty() bool {
	return g == nil || g.Width <= 0 || g.Height <= 0 || len(g.Pix) < g.Width*g.Height*3
}

// At returns the channels of the pixel at (x, y). Coordinates must be in range.
func (g *PixelGrid) At(x, y int) (r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

// Set stores the channels of the pixel at (x, y). Coordinates must be in range.
func (g *PixelGrid) Set(x, y int, r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	g.Pix[i] = r
	g.Pix[i+1] = gr
	g.Pix[i+2] = b
}

// FromImage converts a decoded image into a PixelGrid.
//
// The image is first normalized to non-premultiplied NRGBA so that the stored
// color channels survive unchanged regardless of transparency; the alpha
// channel is then dropped. The grid origin is the image's Bounds().Min.
//
// # Errors
//
//   - Returns *DecodeError if img is nil or has zero area
func FromImage(img image.Image) (*PixelGrid, error) {
	if img == nil {
		return nil, &DecodeError{Msg: "no image"}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, &DecodeError{Msg: fmt.Sprintf("image has zero area (%dx%d)", bounds.Dx(), bounds.Dy())}
	}

	// Clone rebases the image to (0,0) and unpremultiplies every pixel.
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	grid := NewPixelGrid(w, h)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := grid.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return grid, nil
}
