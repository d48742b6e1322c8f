// Package raster implements a decoder and an encoder for the CUPS/PWG
// raster format. It provides functions for decoding a CUPS raster
// stream line-wise or page-wise, and an Encoder for writing one page
// at a time, one line at a time.
//
// For a list of currently supported color spaces and bit depths, see
// the documentation of Page.ParseColors.
package raster
