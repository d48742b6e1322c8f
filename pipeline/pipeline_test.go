package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ippsample/ipptransform/band"
	"github.com/ippsample/ipptransform/job"
	"github.com/ippsample/ipptransform/options"
	"github.com/ippsample/ipptransform/raster"
	"github.com/ippsample/ipptransform/source"
)

// fakeDocument is a source.Document stub: it draws nothing (every band
// stays the white band.New left it), but records every transform it
// was asked to draw with, for the assertions that care about CTM
// composition rather than pixel content.
type fakeDocument struct {
	pages      int
	transforms []Matrix
}

func (d *fakeDocument) PageCount() int                    { return d.pages }
func (d *fakeDocument) IsEncrypted() bool                 { return false }
func (d *fakeDocument) PermitsPrinting() bool              { return true }
func (d *fakeDocument) UnlockWithEmptyPassword() bool     { return true }
func (d *fakeDocument) PageCropBox(index int) source.Rect { return source.Rect{X1: 612, Y1: 792} }
func (d *fakeDocument) Close() error                      { return nil }
func (d *fakeDocument) DrawPage(index int, ctx *band.Context, transform Matrix) error {
	d.transforms = append(d.transforms, transform)
	return nil
}

func configure(t *testing.T, opts options.Map, caps job.Capabilities) (*job.Geometry, *job.Headers) {
	t.Helper()
	geo, hdrs, err := job.Configure(opts, caps, nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return geo, hdrs
}

func countPWGPages(t *testing.T, data []byte) int {
	t.Helper()
	dec, err := raster.NewDecoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	n := 0
	for {
		p, err := dec.NextPage()
		if err != nil {
			break
		}
		if _, err := p.ReadAll(); err != nil {
			t.Fatalf("ReadAll page %d: %v", n, err)
		}
		n++
	}
	return n
}

// Scenario 3 (spec.md §8): simplex PWG, 1-page document (JPEG or PDF,
// the pipeline doesn't care) -> one PWG header, impressions-completed
// reported exactly once.
func TestRunPWGSimplexOnePage(t *testing.T) {
	caps := job.Capabilities{
		Resolutions: []string{"300dpi"},
		Types:       []string{job.ColorTypeGray},
		SheetBack:   job.SheetBackNormal,
		PageCount:   1,
	}
	geo, hdrs := configure(t, options.Map{"media": "na_letter_8.5x11in", "sides": "one-sided"}, caps)

	var out, stderr bytes.Buffer
	enc, err := NewPWGEncoder(&out)
	if err != nil {
		t.Fatalf("NewPWGEncoder: %v", err)
	}
	doc := &fakeDocument{pages: 1}
	report := NewReporter(&stderr)

	if err := Run(doc, geo, hdrs, enc, report); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := countPWGPages(t, out.Bytes()); got != 1 {
		t.Errorf("pages in PWG output = %d, want 1", got)
	}
	errOut := stderr.String()
	if strings.Count(errOut, "ATTR: job-impressions-completed=1") != 1 {
		t.Errorf("expected exactly one job-impressions-completed=1, got:\n%s", errOut)
	}
	if strings.Count(errOut, "ATTR: job-media-sheets-completed=1") != 1 {
		t.Errorf("expected exactly one job-media-sheets-completed=1, got:\n%s", errOut)
	}
}

// Scenario 2-flavored (spec.md §8): a duplex job with an odd page count
// and copies > 1 gets a synthetic blank back page inserted after each
// copy, so TotalPageCount and the number of actual start_page calls
// (observable here as emitted PWG pages) agree.
func TestRunDuplexOddPagesCopiesInsertsBlankBack(t *testing.T) {
	caps := job.Capabilities{
		Resolutions: []string{"300dpi"},
		Types:       []string{job.ColorTypeGray},
		SheetBack:   job.SheetBackNormal,
		PageCount:   3,
	}
	geo, hdrs := configure(t, options.Map{
		"media": "na_letter_8.5x11in", "sides": "two-sided-long-edge", "copies": "2",
	}, caps)

	if hdrs.TotalPageCount != 8 {
		t.Fatalf("TotalPageCount = %d, want 8", hdrs.TotalPageCount)
	}

	var out, stderr bytes.Buffer
	enc, err := NewPWGEncoder(&out)
	if err != nil {
		t.Fatalf("NewPWGEncoder: %v", err)
	}
	doc := &fakeDocument{pages: 3}
	report := NewReporter(&stderr)

	if err := Run(doc, geo, hdrs, enc, report); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := countPWGPages(t, out.Bytes()); got != 8 {
		t.Errorf("pages in PWG output = %d, want 8 (matches TotalPageCount)", got)
	}
}

// Scenario 4 (spec.md §8): the flipped/not-tumble back-side transform
// is [1,0,0,-1,0,792] for a 792pt-tall page.
func TestBackTransformFlippedNotTumble(t *testing.T) {
	got := backTransform(job.SheetBackFlipped, false, 612, 792)
	want := Matrix{1, 0, 0, 0, -1, 792}
	if got != want {
		t.Errorf("backTransform = %v, want %v", got, want)
	}
}

func TestBackTransformFlippedTumble(t *testing.T) {
	got := backTransform(job.SheetBackFlipped, true, 612, 792)
	want := Matrix{-1, 0, 612, 0, 1, 0}
	if got != want {
		t.Errorf("backTransform = %v, want %v", got, want)
	}
}

func TestBackTransformManualTumble(t *testing.T) {
	got := backTransform(job.SheetBackManualTumble, true, 612, 792)
	want := Matrix{-1, 0, 612, 0, -1, 792}
	if got != want {
		t.Errorf("backTransform = %v, want %v", got, want)
	}
}

func TestBackTransformRotatedNotTumble(t *testing.T) {
	got := backTransform(job.SheetBackRotated, false, 612, 792)
	want := Matrix{-1, 0, 612, 0, -1, 792}
	if got != want {
		t.Errorf("backTransform = %v, want %v", got, want)
	}
}

func TestBackTransformNormalIsIdentity(t *testing.T) {
	got := backTransform(job.SheetBackNormal, false, 612, 792)
	if got != identity() {
		t.Errorf("backTransform(normal) = %v, want identity", got)
	}
}

// A duplex job's even pages must actually be drawn with the back
// transform composed in (not silently dropped).
func TestRunComposesBackTransformForEvenPages(t *testing.T) {
	caps := job.Capabilities{
		Resolutions: []string{"300dpi"},
		Types:       []string{job.ColorTypeGray},
		SheetBack:   job.SheetBackFlipped,
		PageCount:   2,
	}
	geo, hdrs := configure(t, options.Map{
		"media": "na_letter_8.5x11in", "sides": "two-sided-long-edge",
	}, caps)

	var out, stderr bytes.Buffer
	enc, err := NewPWGEncoder(&out)
	if err != nil {
		t.Fatalf("NewPWGEncoder: %v", err)
	}
	doc := &fakeDocument{pages: 2}
	report := NewReporter(&stderr)

	if err := Run(doc, geo, hdrs, enc, report); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(doc.transforms) != 2 {
		t.Fatalf("DrawPage called %d times, want 2 (one band each, single-band page)", len(doc.transforms))
	}
	wantScale := source.Scale(float64(geo.XDPI)/72, float64(geo.YDPI)/72)
	if doc.transforms[0] != wantScale {
		t.Errorf("front page transform = %v, want %v (base scale only)", doc.transforms[0], wantScale)
	}
	wantBack := source.Compose(wantScale, backTransform(job.SheetBackFlipped, false, float64(hdrs.Back.CUPSPageSize[0]), float64(hdrs.Back.CUPSPageSize[1])))
	if doc.transforms[1] != wantBack {
		t.Errorf("back page transform = %v, want %v", doc.transforms[1], wantBack)
	}
}

// The per-page CTM must carry a genuine (xdpi/72, ydpi/72) base scale
// term, independently per axis, so an anisotropic resolution like
// 600x300dpi (spec.md §8) doesn't stretch or crop the page.
func TestRunBaseScaleIsAnisotropic(t *testing.T) {
	caps := job.Capabilities{
		Resolutions: []string{"600x300dpi"},
		Types:       []string{job.ColorTypeGray},
		SheetBack:   job.SheetBackNormal,
		PageCount:   1,
	}
	geo, hdrs := configure(t, options.Map{"media": "na_letter_8.5x11in", "sides": "one-sided"}, caps)
	if geo.XDPI != 600 || geo.YDPI != 300 {
		t.Fatalf("resolved resolution = %dx%d, want 600x300", geo.XDPI, geo.YDPI)
	}

	var out, stderr bytes.Buffer
	enc, err := NewPWGEncoder(&out)
	if err != nil {
		t.Fatalf("NewPWGEncoder: %v", err)
	}
	doc := &fakeDocument{pages: 1}
	report := NewReporter(&stderr)

	if err := Run(doc, geo, hdrs, enc, report); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(doc.transforms) == 0 {
		t.Fatal("DrawPage was never called")
	}
	want := source.Scale(600.0/72, 300.0/72)
	if doc.transforms[0] != want {
		t.Errorf("base CTM = %v, want %v", doc.transforms[0], want)
	}
}

func TestReporterStateStripsSuffixes(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	if err := r.State("+media-empty-error", "-toner-low-warning"); err != nil {
		t.Fatalf("State: %v", err)
	}
	want := "STATE: +media-empty,-toner-low\n"
	if buf.String() != want {
		t.Errorf("State output = %q, want %q", buf.String(), want)
	}
}
