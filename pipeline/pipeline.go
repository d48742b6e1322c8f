package pipeline

import (
	"fmt"

	"github.com/ippsample/ipptransform/band"
	"github.com/ippsample/ipptransform/job"
	rasterimage "github.com/ippsample/ipptransform/raster/image"
	"github.com/ippsample/ipptransform/source"
)

// Run drives spec.md §4.7's copies x pages loop: for every page, it
// fills a band.Context one window at a time from doc, threads each
// scanline through enc, and reports impression/sheet progress through
// report. enc has already been opened over the sink (pipeline.NewPWGEncoder
// or pcl.NewEncoder); Run calls StartJob/EndJob itself.
func Run(doc source.Document, geo *job.Geometry, hdrs *job.Headers, enc Encoder, report *Reporter) error {
	if da, ok := doc.(source.DPIAware); ok {
		da.SetTargetDPI(geo.XDPI, geo.YDPI)
	}

	if err := enc.StartJob(); err != nil {
		return fmt.Errorf("pipeline: start job: %w", err)
	}

	isColor := geo.ColorType == job.ColorTypeRGB
	bpp := uint32(1)
	if isColor {
		bpp = 4
	}
	duplex := geo.Sides != job.SidesOneSided
	tumble := geo.Sides == job.SidesTwoSidedShort
	pages := doc.PageCount()

	var impressions, sheets, startPageCalls uint32

	for copy := 0; copy < geo.Copies; copy++ {
		for page := 1; page <= pages; page++ {
			isBack := duplex && page%2 == 0
			if err := renderPage(doc, page-1, hdrs, isBack, geo.SheetBack, tumble, geo.XDPI, geo.YDPI, isColor, bpp, enc); err != nil {
				return fmt.Errorf("pipeline: copy %d page %d: %w", copy, page, err)
			}
			startPageCalls++

			impressions++
			if err := report.Attr("job-impressions-completed", impressions); err != nil {
				return err
			}
			if !duplex || page%2 == 1 {
				sheets++
				if err := report.Attr("job-media-sheets-completed", sheets); err != nil {
					return err
				}
			}
		}

		if geo.Copies > 1 && pages%2 == 1 && duplex {
			if err := renderBlankBack(hdrs, isColor, bpp, enc); err != nil {
				return fmt.Errorf("pipeline: copy %d synthetic blank back: %w", copy, err)
			}
			startPageCalls++
			impressions++
			if err := report.Attr("job-impressions-completed", impressions); err != nil {
				return err
			}
			sheets++
			if err := report.Attr("job-media-sheets-completed", sheets); err != nil {
				return err
			}
		}
	}

	if startPageCalls != hdrs.TotalPageCount {
		return fmt.Errorf("pipeline: emitted %d pages, header promised TotalPageCount %d", startPageCalls, hdrs.TotalPageCount)
	}

	if err := enc.EndJob(); err != nil {
		return fmt.Errorf("pipeline: end job: %w", err)
	}
	return nil
}

// renderPage draws one real document page (index into doc, 0-based)
// into bands and streams it through enc. The CTM passed to doc.DrawPage
// maps the page's points space to device pixels: spec.md §4.7's base
// scale (xdpi/72, ydpi/72), concatenated with the back-side transform on
// even pages, concatenated with the per-band window translate.
func renderPage(doc source.Document, index int, hdrs *job.Headers, isBack bool, sheetBack string, tumble bool, xdpi, ydpi uint32, isColor bool, bpp uint32, enc Encoder) error {
	hdr := hdrs.Front
	if isBack {
		hdr = hdrs.Back
	}

	back := identity()
	if isBack {
		back = backTransform(sheetBack, tumble, float64(hdr.CUPSPageSize[0]), float64(hdr.CUPSPageSize[1]))
	}
	full := compose(source.Scale(float64(xdpi)/72, float64(ydpi)/72), back)

	if err := enc.StartPage(hdr, isBack); err != nil {
		return err
	}

	ctx := band.New(hdr.CUPSWidth, hdr.CUPSHeight, isColor)
	bandHeight := band.Height(hdr.CUPSWidth, hdr.CUPSHeight, bpp)

	var bandStarty, bandEndy uint32
	for y := uint32(0); y < hdr.CUPSHeight; y++ {
		if y >= bandEndy {
			ctx.Reset()
			bandStarty = y
			bandEndy = min(y+bandHeight, hdr.CUPSHeight)

			ctm := compose(translate(0, -float64(bandStarty)), full)
			if err := doc.DrawPage(index, ctx, ctm); err != nil {
				return err
			}
		}

		line := ctx.Line(y - bandStarty)
		if isColor {
			line = rasterimage.PackRGBX(line)
		}
		if err := enc.WriteLine(line); err != nil {
			return err
		}
	}

	return enc.EndPage()
}

// renderBlankBack emits a synthetic all-white back page (spec.md §4.7:
// "if copies > 1 and pages is odd and duplex: render a synthetic blank
// back page"), so a duplexed odd-page job leaves the next copy's front
// side starting on a fresh sheet.
func renderBlankBack(hdrs *job.Headers, isColor bool, bpp uint32, enc Encoder) error {
	hdr := hdrs.Back
	if err := enc.StartPage(hdr, true); err != nil {
		return err
	}

	ctx := band.New(hdr.CUPSWidth, hdr.CUPSHeight, isColor) // band.New already fills white
	bandHeight := band.Height(hdr.CUPSWidth, hdr.CUPSHeight, bpp)

	var bandStarty, bandEndy uint32
	for y := uint32(0); y < hdr.CUPSHeight; y++ {
		if y >= bandEndy {
			bandStarty = y
			bandEndy = min(y+bandHeight, hdr.CUPSHeight)
		}
		line := ctx.Line(y - bandStarty)
		if isColor {
			line = rasterimage.PackRGBX(line)
		}
		if err := enc.WriteLine(line); err != nil {
			return err
		}
	}

	return enc.EndPage()
}
