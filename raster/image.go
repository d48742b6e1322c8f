package raster

import "image/color"

func (p *Page) ParseColors(b []byte) ([]color.Color, error) {
	// TODO support banded and planar
	if p.Header.CUPSColorOrder != ChunkyPixels {
		return nil, ErrUnsupported
	}
	switch p.Header.CUPSColorSpace {
	case ColorSpaceBlack:
		if p.Header.CUPSBitsPerColor == 1 {
			return p.parseColorsBlack(b), nil
		}
		return p.parseColorsGray8(b, true), nil
	case ColorSpacesGray:
		return p.parseColorsGray8(b, false), nil
	case ColorSpacesRGB:
		return p.parseColorsRGB8(b), nil
	default:
		return nil, ErrUnsupported
	}
}

func (p *Page) parseColorsBlack(b []byte) []color.Color {
	var colors []color.Color
	for _, packet := range b {
		for i := uint(0); i < 8; i++ {
			if packet<<i&128 == 0 {
				colors = append(colors, color.Gray{255})
			} else {
				colors = append(colors, color.Gray{0})
			}
		}
	}
	return colors
}

// parseColorsGray8 interprets b as one 8-bit gray sample per pixel.
// invert flips ColorSpaceBlack's 0=white convention to color.Gray's
// 0=black convention; ColorSpacesGray needs no inversion.
func (p *Page) parseColorsGray8(b []byte, invert bool) []color.Color {
	colors := make([]color.Color, len(b))
	for i, v := range b {
		if invert {
			v = 255 - v
		}
		colors[i] = color.Gray{Y: v}
	}
	return colors
}

func (p *Page) parseColorsRGB8(b []byte) []color.Color {
	colors := make([]color.Color, 0, len(b)/3)
	for i := 0; i+3 <= len(b); i += 3 {
		colors = append(colors, color.RGBA{R: b[i], G: b[i+1], B: b[i+2], A: 0xFF})
	}
	return colors
}
