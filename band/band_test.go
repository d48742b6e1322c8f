package band

import (
	"image"
	"testing"
)

func TestHeightClampedToPageHeight(t *testing.T) {
	// A tiny page: the budget formula would allow a much taller band
	// than the page itself, so it must clamp to cupsHeight.
	got := Height(100, 10, 1)
	if got != 10 {
		t.Errorf("Height = %d, want 10 (clamped to page height)", got)
	}
}

func TestHeightAtLeastOne(t *testing.T) {
	// A page wide enough that one scanline alone exceeds the budget
	// still gets a 1-line band, never zero.
	got := Height(MaxRasterBytes, 5000, 4)
	if got != 1 {
		t.Errorf("Height = %d, want 1", got)
	}
}

func TestHeightBudgetFormula(t *testing.T) {
	// 2550-wide, 4 bytes/pixel -> floor(16777216 / (2550*4)) = 1644,
	// within an 11000-line page so no clamping applies.
	got := Height(2550, 11000, 4)
	want := uint32(MaxRasterBytes / (2550 * 4))
	if got != want {
		t.Errorf("Height = %d, want %d", got, want)
	}
	if got > 11000 {
		t.Errorf("Height = %d exceeds page height 11000", got)
	}
}

func TestNewGrayVsColorBPP(t *testing.T) {
	gray := New(2550, 3300, false)
	if gray.BPP != 1 {
		t.Errorf("gray BPP = %d, want 1", gray.BPP)
	}

	rgb := New(2550, 3300, true)
	if rgb.BPP != 4 {
		t.Errorf("color BPP = %d, want 4", rgb.BPP)
	}
}

func TestNewFillsWhite(t *testing.T) {
	ctx := New(4, 4, false)
	line := ctx.Line(0)
	for i, b := range line {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x, want 0xff (white)", i, b)
		}
	}
}

func TestReset(t *testing.T) {
	ctx := New(4, 4, false)
	// Dirty the band.
	gray, ok := ctx.Pixels.(*image.Gray)
	if !ok {
		t.Fatalf("gray context's Pixels is %T, want *image.Gray", ctx.Pixels)
	}
	for i := range gray.Pix {
		gray.Pix[i] = 0
	}
	ctx.Reset()
	line := ctx.Line(0)
	for i, b := range line {
		if b != 0xFF {
			t.Fatalf("after Reset, byte %d = %#x, want 0xff", i, b)
		}
	}
}

func TestLineOffsetsGray(t *testing.T) {
	ctx := New(4, 4, false)
	l0 := ctx.Line(0)
	l1 := ctx.Line(1)
	if len(l0) != 4 {
		t.Fatalf("line length = %d, want %d (1 byte/pixel, gray)", len(l0), 4)
	}
	if &l0[0] == &l1[0] {
		t.Error("Line(0) and Line(1) must not alias the same bytes")
	}
}

func TestLineOffsetsColor(t *testing.T) {
	ctx := New(4, 4, true)
	l0 := ctx.Line(0)
	if len(l0) != 4*4 {
		t.Fatalf("line length = %d, want %d (4 bytes/pixel RGBX, color)", len(l0), 4*4)
	}
}

func TestPixelsConcreteTypeMatchesBPP(t *testing.T) {
	if _, ok := New(10, 10, false).Pixels.(*image.Gray); !ok {
		t.Error("gray context should back Pixels with *image.Gray")
	}
	if _, ok := New(10, 10, true).Pixels.(*image.NRGBA); !ok {
		t.Error("color context should back Pixels with *image.NRGBA")
	}
}
