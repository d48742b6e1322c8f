// Package pcl implements the HP PCL encoder (C6): a per-page state
// machine that compiles an 8-bit grayscale scanline stream into
// escape-sequenced, PackBits-compressed 1-bit raster, the PCL
// counterpart to package raster's PWG encoder.
//
// PCL's own PackBits convention (literal header = count-1, replicate
// header = 257-count applied to the *opposite* comparison than PWG
// raster's run-length scheme in package raster) is implemented by
// packBits in packbits.go; do not reuse package raster's WriteLine run
// encoding for PCL output, the two are inverses of each other.
package pcl

import (
	"fmt"
	"io"

	"github.com/ippsample/ipptransform/raster"
)

const esc = "\x1b"

// pageSizeCode maps a page's height in points (rounded to the nearest
// integer) to the PCL page-size code used in "ESC & l N A". Heights
// absent from this table omit the page-size command entirely.
var pageSizeCode = map[int]int{
	540:  80,
	595:  25,
	624:  90,
	649:  91,
	684:  81,
	709:  100,
	756:  1,
	792:  2,
	842:  26,
	1008: 3,
	1191: 27,
	1224: 6,
}

// a4HeightPoints is the page-height-in-points value that triggers the
// centered 8-inch-wide image box instead of the usual xdpi/4 side
// margins.
const a4HeightPoints = 842

// Encoder writes a PCL byte stream for one job's worth of pages to w.
// Call StartJob once, then StartPage/WriteLine.../EndPage once per
// page, then EndJob once.
type Encoder struct {
	w io.Writer

	xdpi, ydpi                           uint32
	imgLeft, imgRight, imgTop, imgBottom uint32
	imgWidth, imgHeight                  uint32
	duplex, isBack                       bool
	y                                    uint32
	blankRows                            uint32
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// StartJob resets the printer once for the whole job (spec.md §4.6
// point 2: "Emit ESC E (reset) only once per job").
func (e *Encoder) StartJob() error {
	return e.printf("%sE", esc)
}

// EndJob resets the printer at the end of the job.
func (e *Encoder) EndJob() error {
	return e.printf("%sE", esc)
}

// StartPage writes the per-page preamble (margins, page size, duplex
// mode, graphics setup) for h. isBack is true for the even/back side
// of a duplex sheet.
func (e *Encoder) StartPage(h *raster.PageHeader, isBack bool) error {
	e.y = 0
	e.blankRows = 0
	e.xdpi, e.ydpi = h.HorizDPI, h.VertDPI
	e.duplex, e.isBack = h.Duplex, isBack
	e.computeImageBox(h)

	if !isBack {
		if err := e.printf("%s&l12D%s&k12H", esc, esc); err != nil {
			return err
		}
		if err := e.printf("%s&l0O", esc); err != nil {
			return err
		}
		if code, ok := pageSizeCode[roundPoints(h.CUPSPageSize[1])]; ok {
			if err := e.printf("%s&l%dA", esc, code); err != nil {
				return err
			}
		}
		k := 0
		if e.ydpi > 0 {
			k = int(12 * e.imgTop / e.ydpi)
		}
		if err := e.printf("%s&l%dE%s&l0L", esc, k, esc); err != nil {
			return err
		}
		if h.Duplex {
			n := 1
			if h.Tumble {
				n = 2
			}
			if err := e.printf("%s&l%dS", esc, n); err != nil {
				return err
			}
		}
	} else {
		if err := e.printf("%s&a2G", esc); err != nil {
			return err
		}
	}

	if err := e.printf("%s*t%dR", esc, e.xdpi); err != nil {
		return err
	}
	if err := e.printf("%s*r%dS", esc, e.imgWidth); err != nil {
		return err
	}
	if err := e.printf("%s*r%dT", esc, e.imgHeight); err != nil {
		return err
	}
	if err := e.printf("%s&a0H", esc); err != nil {
		return err
	}
	v := 0
	if e.ydpi > 0 {
		v = int(720 * e.imgTop / e.ydpi)
	}
	if err := e.printf("%s&a%dV", esc, v); err != nil {
		return err
	}
	if err := e.printf("%s*b2M", esc); err != nil {
		return err
	}
	return e.printf("%s*r1A", esc)
}

// computeImageBox resolves spec.md §4.6 point 1's margins into the
// absolute pixel rectangle write_line windows against.
func (e *Encoder) computeImageBox(h *raster.PageHeader) {
	topPx := h.VertDPI / 6
	bottomPx := saturatingSub(h.CUPSHeight, 1+topPx)

	var leftPx, rightPx uint32
	if roundPoints(h.CUPSPageSize[1]) == a4HeightPoints {
		imgWidth := 8 * h.HorizDPI
		if h.CUPSWidth > imgWidth {
			leftPx = (h.CUPSWidth - imgWidth) / 2
		}
		rightPx = leftPx + imgWidth - 1
	} else {
		leftPx = h.HorizDPI / 4
		rightPx = saturatingSub(h.CUPSWidth, 1+leftPx)
	}

	e.imgLeft, e.imgRight, e.imgTop, e.imgBottom = leftPx, rightPx, topPx, bottomPx
	e.imgWidth = rightPx - leftPx + 1
	e.imgHeight = bottomPx - topPx + 1
}

func saturatingSub(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

func roundPoints(v float32) int {
	return int(v + 0.5)
}

// WriteLine consumes one full-width scanline (one byte per pixel, 0 =
// black, 255 = white, matching raster's sgray_8 convention) and emits
// either a blank-row accumulation or a dithered, PackBits-compressed
// raster row, per spec.md §4.6's write_line steps 1-5.
func (e *Encoder) WriteLine(line []byte) error {
	window := line[e.imgLeft : e.imgRight+1]

	blank := true
	for _, v := range window {
		if v != 0xFF {
			blank = false
			break
		}
	}
	if blank {
		e.blankRows++
		e.y++
		return nil
	}

	if err := e.flushBlanks(); err != nil {
		return err
	}

	bits := ditherRow(window, int(e.imgLeft), e.y)
	comp := packBits(bits)
	if err := e.printf("%s*b%dW", esc, len(comp)); err != nil {
		return err
	}
	if _, err := e.w.Write(comp); err != nil {
		return err
	}
	e.y++
	return nil
}

// flushBlanks emits any accumulated blank-row run as a single ESC * b
// N Y command (spec.md §4.6 write_line step 4).
func (e *Encoder) flushBlanks() error {
	if e.blankRows == 0 {
		return nil
	}
	err := e.printf("%s*b%dY", esc, e.blankRows)
	e.blankRows = 0
	return err
}

// EndPage flushes any trailing blank rows, ends the graphics region,
// and emits a formfeed when this page is the one that ejects the
// physical sheet: every page under simplex, and only the front (odd)
// page under duplex (spec.md §8's "a formfeed per physical sheet,
// ie after odd pages only").
func (e *Encoder) EndPage() error {
	if err := e.flushBlanks(); err != nil {
		return err
	}
	if err := e.printf("%s*r0B", esc); err != nil {
		return err
	}
	if !e.duplex || !e.isBack {
		if _, err := e.w.Write([]byte{0x0C}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}
