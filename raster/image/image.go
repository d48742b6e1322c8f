// Package image allows using PWG raster pages in combination with
// image.Image, and packs the sRGB intermediate's RGBX scanlines down to
// RGB for the wire per spec.md §4.7.
package image

import (
	"image"
	"image/color"

	"github.com/ippsample/ipptransform/raster"
)

func rect(p *raster.Page) image.Rectangle {
	return image.Rect(0, 0, int(p.Header.CUPSWidth), int(p.Header.CUPSHeight))
}

// Image returns an image.Image of the page.
//
// Depending on the color space and bit depth used, image.Image
// implementations from this package or from the Go standard library
// image package may be used. The mapping is as follows:
//
//   - 1-bit, ColorSpaceBlack -> *Monochrome
//   - 8-bit, ColorSpaceBlack or ColorSpacesGray -> *image.Gray
//   - 8-bit, ColorSpacesRGB -> *image.RGBA (alpha forced opaque)
//   - Other combinations are not currently supported and will return
//     ErrUnsupported.
//
// Image consumes the entire remaining stream of the page: no calls to
// ReadLine must be made before or after calling Image.
func Image(p *raster.Page) (image.Image, error) {
	b, err := p.ReadAll()
	if err != nil {
		return nil, err
	}

	if p.Header.CUPSColorOrder != raster.ChunkyPixels {
		return nil, raster.ErrUnsupported
	}
	switch p.Header.CUPSColorSpace {
	case raster.ColorSpaceBlack, raster.ColorSpacesGray:
		switch p.Header.CUPSBitsPerColor {
		case 1:
			if p.Header.CUPSColorSpace != raster.ColorSpaceBlack {
				return nil, raster.ErrUnsupported
			}
			return &Monochrome{
				Pix:    b,
				Stride: int(p.Header.CUPSBytesPerLine),
				Rect:   rect(p),
			}, nil
		case 8:
			if p.Header.CUPSColorSpace == raster.ColorSpaceBlack {
				for i, v := range b {
					b[i] = 255 - v
				}
			}
			return &image.Gray{
				Pix:    b,
				Stride: int(p.Header.CUPSBytesPerLine),
				Rect:   rect(p),
			}, nil
		default:
			return nil, raster.ErrUnsupported
		}
	case raster.ColorSpacesRGB:
		if p.Header.CUPSBitsPerColor != 8 {
			return nil, raster.ErrUnsupported
		}
		return &image.RGBA{
			Pix:    expandRGBToRGBA(b),
			Stride: int(p.Header.CUPSWidth) * 4,
			Rect:   rect(p),
		}, nil
	default:
		return nil, raster.ErrUnsupported
	}
}

func expandRGBToRGBA(rgb []byte) []byte {
	out := make([]byte, 0, len(rgb)/3*4)
	for i := 0; i+3 <= len(rgb); i += 3 {
		out = append(out, rgb[i], rgb[i+1], rgb[i+2], 0xFF)
	}
	return out
}

// PackRGBX compresses an RGBX scanline (4 bytes/pixel, the band
// buffer's sRGB intermediate format) down to RGB (3 bytes/pixel, PWG's
// wire format for srgb_8) in place. It returns the packed prefix of
// dst; the trailing width bytes of dst are left untouched and must not
// be read. Per spec.md §3's invariant, this is the pre-emission pack
// step every srgb_8 scanline goes through before write_line.
func PackRGBX(dst []byte) []byte {
	n := len(dst) / 4
	for i := 0; i < n; i++ {
		copy(dst[i*3:i*3+3], dst[i*4:i*4+3])
	}
	return dst[:n*3]
}

var _ image.Image = (*Monochrome)(nil)

// Monochrome is an in-memory monochromatic image, with 8 pixels
// packed into one byte. Its At method returns color.Gray values.
type Monochrome struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func (img *Monochrome) ColorModel() color.Model {
	return color.GrayModel
}

func (img *Monochrome) Bounds() image.Rectangle {
	return img.Rect
}

func (img *Monochrome) At(x, y int) color.Color {
	idx := img.PixOffset(x, y)
	if img.Pix[idx]<<uint(x%8)&128 == 0 {
		return color.Gray{Y: 255}
	}
	return color.Gray{Y: 0}
}

// PixOffset returns the index of the first element of Pix that
// corresponds to the pixel at (x, y).
func (img *Monochrome) PixOffset(x, y int) int {
	return y*img.Stride + (x / 8)
}
