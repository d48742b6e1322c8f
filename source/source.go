// Package source defines the Source Decoder capability (spec.md §4.4):
// a minimal, format-agnostic surface every input decoder (source/pdf,
// source/jpeg) implements, so the page pipeline never branches on input
// MIME type once a Document has been opened.
package source

import (
	"golang.org/x/image/math/f64"

	"github.com/ippsample/ipptransform/band"
)

// Matrix is the affine transform a Document applies while drawing a
// page onto a band's pixel surface: the same type golang.org/x/image/draw
// consumes, so the CTM composed by the pipeline and the CTM applied by
// the decoder are one representation end to end.
type Matrix = f64.Aff3

// Rect is a page's crop box, in PDF/JPEG source units (points for PDF,
// pixels for JPEG).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Document is the Source Decoder capability set from spec.md §4.4.
// PDF documents may report IsEncrypted()==true; the caller should then
// try UnlockWithEmptyPassword() and treat a false return as fatal.
// PermitsPrinting() lets the caller reject documents whose owner
// permissions forbid printing before any rendering work begins.
type Document interface {
	PageCount() int
	IsEncrypted() bool
	PermitsPrinting() bool
	UnlockWithEmptyPassword() bool
	PageCropBox(index int) Rect

	// DrawPage rasterizes page index onto ctx's pixel surface. transform
	// maps the page's points space (spec.md §4.7's CTM, already composed
	// with the per-band window and the back-side flip) into ctx's device
	// pixel space; the implementation composes its own decoded-pixel-to-
	// points mapping in front of it before resampling onto ctx.Pixels.
	DrawPage(index int, ctx *band.Context, transform Matrix) error

	Close() error
}

// DPIAware is implemented by a Document whose decoded pixels carry
// their own native resolution (source/jpeg) -- the pipeline calls
// SetTargetDPI once, after resolving the job's output resolution, so
// the decoder can resample to the printed resolution before any page
// is drawn. Document types with no independent native resolution
// (source/pdf, rendered from vector content at whatever DPI the
// pipeline asks for) don't implement it.
type DPIAware interface {
	SetTargetDPI(xdpi, ydpi uint32)
}

// Identity returns the affine identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 0, 1, 0} }

// Scale returns the matrix that scales x by sx and y by sy about the
// origin.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// Compose returns the matrix equivalent to applying b first, then a:
// Compose(a, b)(p) == a(b(p)).
func Compose(a, b Matrix) Matrix {
	return Matrix{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
