package pipeline

import (
	"io"

	"github.com/ippsample/ipptransform/raster"
)

// Encoder is the capability spec.md §9 redesigns C5/C6's parallel
// callback tables into: a format-specific encoder that StartJob,
// StartPage, WriteLine, EndPage and EndJob are called against in that
// order, once per job / once per page / once per scanline / once per
// page / once per job respectively. *pcl.Encoder already has exactly
// this method set; pwgEncoder below adapts package raster's two-level
// Encoder/EncodePage API to the same shape so C7 never branches on
// output format once an Encoder has been constructed.
type Encoder interface {
	StartJob() error
	StartPage(h *raster.PageHeader, isBack bool) error
	WriteLine(line []byte) error
	EndPage() error
	EndJob() error
}

// pwgEncoder adapts raster.Encoder (spec.md §4.5: start_job opens the
// writer, start_page returns a page-scoped writer, end_page is a
// no-op, end_job is implicit since PWG raster has no trailer) to the
// Encoder interface.
type pwgEncoder struct {
	enc  *raster.Encoder
	page *raster.EncodePage
}

// NewPWGEncoder opens a PWG raster writer over w (spec.md §4.5's
// start_job) and returns it behind the Encoder interface.
func NewPWGEncoder(w io.Writer) (Encoder, error) {
	enc, err := raster.NewEncoder(w)
	if err != nil {
		return nil, err
	}
	return &pwgEncoder{enc: enc}, nil
}

func (p *pwgEncoder) StartJob() error { return nil }

func (p *pwgEncoder) StartPage(h *raster.PageHeader, isBack bool) error {
	page, err := p.enc.StartPage(h)
	if err != nil {
		return err
	}
	p.page = page
	return nil
}

func (p *pwgEncoder) WriteLine(line []byte) error { return p.page.WriteLine(line) }

// EndPage is a no-op: PWG raster has no per-page finalization (spec.md
// §4.5).
func (p *pwgEncoder) EndPage() error { return nil }

// EndJob is a no-op: the version-2 sync word and per-page headers are
// all PWG raster ever writes; there is no trailing chunk to flush.
func (p *pwgEncoder) EndJob() error { return nil }
