// Package pipeline implements the Page Pipeline (C7): the top-level
// copies x pages loop that drives a source.Document's pages through a
// band.Context into whichever encoder (raster or pcl) the job selected,
// reporting progress on the side.
package pipeline

import (
	"github.com/ippsample/ipptransform/job"
	"github.com/ippsample/ipptransform/source"
)

// Matrix is the same affine representation source.Document.DrawPage
// consumes.
type Matrix = source.Matrix

func identity() Matrix { return source.Identity() }

// translate returns the matrix that adds (tx, ty) to every point.
func translate(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty}
}

// compose returns the matrix equivalent to applying b first, then a:
// compose(a, b)(p) == a(b(p)).
func compose(a, b Matrix) Matrix { return source.Compose(a, b) }

// backTransform returns spec.md §4.7's back-side affine transform for a
// duplex job's even (back) pages, in the points space its W, H
// (cupsPageSize) are stated in -- the pipeline composes this underneath
// the points-to-device scale term, never in device pixels directly.
func backTransform(sheetBack string, tumble bool, w, h float64) Matrix {
	switch {
	case sheetBack == job.SheetBackFlipped && !tumble:
		return Matrix{1, 0, 0, 0, -1, h}
	case sheetBack == job.SheetBackFlipped && tumble:
		return Matrix{-1, 0, w, 0, 1, 0}
	case sheetBack == job.SheetBackManualTumble && tumble:
		return Matrix{-1, 0, w, 0, -1, h}
	case sheetBack == job.SheetBackRotated && !tumble:
		return Matrix{-1, 0, w, 0, -1, h}
	default:
		return identity()
	}
}
