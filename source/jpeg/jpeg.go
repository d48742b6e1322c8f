// Package jpeg implements source.Document over the standard library's
// image/jpeg decoder, per spec.md §4.4: a JPEG behaves as a 1-page
// document with no encryption concept.
package jpeg

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	stdjpeg "image/jpeg"
	"math"
	"os"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/ippsample/ipptransform/band"
	"github.com/ippsample/ipptransform/source"
)

// Document wraps a single decoded JPEG image as a source.Document.
type Document struct {
	img        image.Image
	dpi        int // 0 when the file carries no JFIF density marker
	targetXDPI uint32
	targetYDPI uint32
}

// Open decodes path as a JPEG. dpi is recovered from the file's JFIF
// APP0 density marker when present (detectDPI), else 0, in which case
// callers should fall back to the job's configured resolution.
func Open(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jpeg: %w", err)
	}
	img, err := stdjpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return &Document{img: img, dpi: detectDPI(raw)}, nil
}

// DPI returns the density recovered from the JFIF marker, or 0 if none
// was present.
func (d *Document) DPI() int { return d.dpi }

// SetTargetDPI implements source.DPIAware. When the decoded image
// carries its own JFIF density and it doesn't match the job's
// resolution, the image is resampled once, up front, to the printed
// resolution via imaging.Resize, so DrawPage's per-band transform never
// has to reconcile two different resolutions on its own. A JPEG with no
// density marker is left at its native pixel size and assumed to
// already be at the job's resolution.
func (d *Document) SetTargetDPI(xdpi, ydpi uint32) {
	d.targetXDPI, d.targetYDPI = xdpi, ydpi
	if d.dpi <= 0 || xdpi == 0 || ydpi == 0 {
		return
	}
	native := float64(d.dpi)
	sx := float64(xdpi) / native
	sy := float64(ydpi) / native
	if sx == 1 && sy == 1 {
		return
	}
	b := d.img.Bounds()
	newW := int(math.Round(float64(b.Dx()) * sx))
	newH := int(math.Round(float64(b.Dy()) * sy))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	d.img = imaging.Resize(d.img, newW, newH, imaging.Lanczos)
}

func (d *Document) PageCount() int               { return 1 }
func (d *Document) IsEncrypted() bool             { return false }
func (d *Document) PermitsPrinting() bool         { return true }
func (d *Document) UnlockWithEmptyPassword() bool { return true }

func (d *Document) PageCropBox(index int) source.Rect {
	b := d.img.Bounds()
	return source.Rect{X0: 0, Y0: 0, X1: float64(b.Dx()), Y1: float64(b.Dy())}
}

// DrawPage resamples the (possibly already target-DPI-resized) decoded
// image onto ctx's pixel surface. transform is stated in points space
// (spec.md §4.7's CTM); DrawPage composes the image-pixel-to-points
// mapping implied by the job's resolution in front of it, so a JPEG
// whose native pixel dimensions don't match cupsWidth x cupsHeight is
// still scaled to fill the page rather than drawn at 1:1.
func (d *Document) DrawPage(index int, ctx *band.Context, transform source.Matrix) error {
	if index != 0 {
		return fmt.Errorf("jpeg: page %d out of range (1-page document)", index)
	}

	local := source.Identity()
	if d.targetXDPI > 0 && d.targetYDPI > 0 {
		local = source.Scale(72/float64(d.targetXDPI), 72/float64(d.targetYDPI))
	}
	full := source.Compose(transform, local)

	sr := d.img.Bounds()
	box := d.PageCropBox(index)
	if clip := image.Rect(int(box.X0), int(box.Y0), int(box.X1), int(box.Y1)).Intersect(sr); !clip.Empty() {
		sr = clip
	}

	xdraw.ApproxBiLinear.Transform(ctx.Pixels, full, d.img, sr, draw.Over, nil)
	return nil
}

func (d *Document) Close() error { return nil }

// detectDPI walks a JPEG's marker stream looking for the JFIF APP0
// segment's density fields, converting dots-per-cm to dots-per-inch
// when that's the unit in use. Returns 0 if no density is recorded.
// Adapted from the scan-side JFIF density detection used to recover a
// scanned image's physical size before re-emitting it as a PDF.
func detectDPI(data []byte) int {
	i := 2 // skip the SOI marker (FF D8)
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE0 && segLen >= 14 && i+4+10 <= len(data) {
			seg := data[i+4:]
			if len(seg) >= 10 && string(seg[0:5]) == "JFIF\x00" {
				units := seg[7]
				xd := int(seg[8])<<8 | int(seg[9])
				switch units {
				case 1: // dots per inch
					return xd
				case 2: // dots per cm
					return int(float64(xd) * 2.54)
				}
			}
		}
		if segLen < 2 {
			break
		}
		i += 2 + segLen
	}
	return 0
}
