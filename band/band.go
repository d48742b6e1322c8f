// Package band implements the Band Context (spec.md §4.3): the
// scanline-window abstraction the page pipeline renders a page into
// piece by piece, under a fixed total-byte budget, rather than holding
// an entire page's pixels in memory at once.
package band

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// MaxRasterBytes bounds a single band buffer's size (spec.md §3).
const MaxRasterBytes = 16 * 1024 * 1024

// Context is one page's band buffer: a horizontal strip, `Height`
// scanlines tall and the page's full CUPS width wide, that the source
// decoder draws into and the encoder (C5 or C6) drains line by line.
type Context struct {
	Width  uint32
	Height uint32
	BPP    uint32 // 4 for the sRGB intermediate, 1 for gray

	// Pixels is the drawing surface every Source implementation
	// targets through golang.org/x/image/draw's affine Transform. Its
	// concrete type is *image.NRGBA when BPP==4 and *image.Gray when
	// BPP==1 -- spec.md §3 sizes band_buffer as band_height * cups_width
	// * band_bpp bytes, so the gray path's buffer is genuinely one byte
	// per pixel, not a 4-byte RGBA surface packed down later.
	Pixels draw.Image
}

// New allocates a band sized per spec.md §3's formula:
// floor(MaxRasterBytes / (cupsWidth * bpp)), clamped to [1, cupsHeight].
// isColor selects band_bpp: 4 for the sRGB intermediate, 1 for gray (PCL
// always takes the gray path, per spec.md §4.3).
func New(cupsWidth, cupsHeight uint32, isColor bool) *Context {
	bpp := uint32(1)
	if isColor {
		bpp = 4
	}
	height := Height(cupsWidth, cupsHeight, bpp)

	ctx := &Context{Width: cupsWidth, Height: height, BPP: bpp}
	if isColor {
		ctx.Pixels = imaging.New(int(cupsWidth), int(height), color.White)
	} else {
		g := image.NewGray(image.Rect(0, 0, int(cupsWidth), int(height)))
		fillWhite(g)
		ctx.Pixels = g
	}
	return ctx
}

// Height computes band_height per spec.md §3.
func Height(cupsWidth, cupsHeight, bpp uint32) uint32 {
	if cupsWidth == 0 || bpp == 0 {
		return 1
	}
	h := MaxRasterBytes / (cupsWidth * bpp)
	if h < 1 {
		h = 1
	}
	if h > cupsHeight {
		h = cupsHeight
	}
	return h
}

func fillWhite(g *image.Gray) {
	for i := range g.Pix {
		g.Pix[i] = 0xFF
	}
}

// Reset repaints the band white, so it can be reused for the next band
// of the same page (or the next page) without a fresh allocation.
func (c *Context) Reset() {
	switch p := c.Pixels.(type) {
	case *image.Gray:
		fillWhite(p)
	case *image.NRGBA:
		fill := imaging.New(int(c.Width), int(c.Height), color.White)
		copy(p.Pix, fill.Pix)
	}
}

// Line returns the raw pixel bytes of scanline y within the band
// (y is band-relative, 0-indexed): cupsWidth bytes for a gray band,
// cupsWidth*4 (RGBX) bytes for a color band.
func (c *Context) Line(y uint32) []byte {
	switch p := c.Pixels.(type) {
	case *image.Gray:
		start := p.PixOffset(0, int(y))
		return p.Pix[start : start+int(c.Width)]
	case *image.NRGBA:
		start := p.PixOffset(0, int(y))
		return p.Pix[start : start+int(c.Width)*4]
	default:
		return nil
	}
}
