package raster

// Encoder is decode.go's Decoder mirrored in the write direction: same
// field layout, same sync words, same per-line run-length scheme,
// walked in the opposite order so a stream this package writes round
// trips through NewDecoder/NextPage/ReadLine unchanged.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder writes a PWG raster v2 stream (spec.md §4.5's "open a PWG
// raster writer over the sink").
type Encoder struct {
	w  io.Writer
	bo binary.ByteOrder
}

// NewEncoder writes the version-2 sync word and returns an Encoder
// ready for StartPage.
func NewEncoder(w io.Writer) (*Encoder, error) {
	if _, err := w.Write([]byte(syncV2BE)); err != nil {
		return nil, err
	}
	return &Encoder{w: w, bo: binary.BigEndian}, nil
}

// EncodePage is a single page opened for writing; its lifetime mirrors
// decode.go's Page.
type EncodePage struct {
	enc *Encoder
	h   *PageHeader
	bpc int
}

// StartPage writes h and returns an EncodePage ready for WriteLine
// calls (spec.md §4.5's "start_page: select front or back RasterHeader
// ..., write the header").
func (e *Encoder) StartPage(h *PageHeader) (*EncodePage, error) {
	if err := e.writeV2Header(h); err != nil {
		return nil, err
	}
	bpc, err := bytesPerColor(h)
	if err != nil {
		return nil, err
	}
	return &EncodePage{enc: e, h: h, bpc: bpc}, nil
}

// WriteLine run-length encodes one scanline (cups_bytes_per_line bytes,
// already packed to the header's color depth) and writes it. A single
// scanline is always written at line-repeat count 1: this engine never
// collapses vertically-identical rows into one wire entry, matching
// spec.md §4.5's "write cups_bytes_per_line verbatim" per call.
//
// The per-color run header follows decode.go's ReadLine exactly: a
// header byte n in [0,127] is a repeat run of n+1 copies of one color
// (one color value follows); n in [128,255] is a literal run of 257-n
// distinct colors (that many color values follow). This is CUPS
// raster's own scheme, the inverse of PCL's PackBits convention used in
// the pcl package.
func (p *EncodePage) WriteLine(line []byte) error {
	if uint32(len(line)) != p.h.CUPSBytesPerLine {
		return fmt.Errorf("raster: WriteLine got %d bytes, want %d", len(line), p.h.CUPSBytesPerLine)
	}
	if _, err := p.enc.w.Write([]byte{0}); err != nil {
		return err
	}

	bpc := p.bpc
	for i := 0; i < len(line); {
		runLen := 1
		for i+runLen*bpc+bpc <= len(line) && runLen < 128 &&
			bytes.Equal(line[i:i+bpc], line[i+runLen*bpc:i+runLen*bpc+bpc]) {
			runLen++
		}
		if runLen >= 2 {
			if err := p.writeRun(byte(runLen-1), line[i:i+bpc]); err != nil {
				return err
			}
			i += runLen * bpc
			continue
		}

		start := i
		count := 1
		i += bpc
		for count < 129 && i+bpc <= len(line) {
			if i+2*bpc <= len(line) && bytes.Equal(line[i:i+bpc], line[i+bpc:i+2*bpc]) {
				break
			}
			count++
			i += bpc
		}
		if err := p.writeRun(byte(257-count), line[start:i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *EncodePage) writeRun(header byte, payload []byte) error {
	if _, err := p.enc.w.Write([]byte{header}); err != nil {
		return err
	}
	_, err := p.enc.w.Write(payload)
	return err
}

func (e *Encoder) writeCString(s string) error {
	b := make([]byte, 64)
	copy(b, s)
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) writeUint(v uint32) error {
	return binary.Write(e.w, e.bo, v)
}

func boolUint(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (e *Encoder) writeV1Header(h *PageHeader) error {
	strs := []string{h.MediaClass, h.MediaColor, h.MediaType, h.OutputType}
	for _, s := range strs {
		if err := e.writeCString(s); err != nil {
			return err
		}
	}

	data := struct {
		AdvanceDistance  uint32
		AdvanceMedia     uint32
		Collate          uint32
		CutMedia         uint32
		Duplex           uint32
		HorizDPI         uint32
		VertDPI          uint32
		BoundingBox      BoundingBox
		InsertSheet      uint32
		Jog              uint32
		LeadingEdge      uint32
		MarginLeft       uint32
		MarginBottom     uint32
		ManualFeed       uint32
		MediaPosition    uint32
		MediaWeight      uint32
		MirrorPrint      uint32
		NegativePrint    uint32
		NumCopies        uint32
		Orientation      uint32
		OutputFaceUp     uint32
		Width            uint32
		Length           uint32
		Separations      uint32
		TraySwitch       uint32
		Tumble           uint32
		CUPSWidth        uint32
		CUPSHeight       uint32
		CUPSMediaType    uint32
		CUPSBitsPerColor uint32
		CUPSBitsPerPixel uint32
		CUPSBytesPerLine uint32
		CUPSColorOrder   uint32
		CUPSColorSpace   uint32
		CUPSCompression  uint32
		CUPSRowCount     uint32
		CUPSRowFeed      uint32
		CUPSRowStep      uint32
	}{
		AdvanceDistance:  h.AdvanceDistance,
		AdvanceMedia:     uint32(h.AdvanceMedia),
		Collate:          boolUint(h.Collate),
		CutMedia:         uint32(h.CutMedia),
		Duplex:           boolUint(h.Duplex),
		HorizDPI:         h.HorizDPI,
		VertDPI:          h.VertDPI,
		BoundingBox:      h.BoundingBox,
		InsertSheet:      boolUint(h.InsertSheet),
		Jog:              uint32(h.Jog),
		LeadingEdge:      uint32(h.LeadingEdge),
		MarginLeft:       h.MarginLeft,
		MarginBottom:     h.MarginBottom,
		ManualFeed:       boolUint(h.ManualFeed),
		MediaPosition:    h.MediaPosition,
		MediaWeight:      h.MediaWeight,
		MirrorPrint:      boolUint(h.MirrorPrint),
		NegativePrint:    boolUint(h.NegativePrint),
		NumCopies:        h.NumCopies,
		Orientation:      uint32(h.Orientation),
		OutputFaceUp:     boolUint(h.OutputFaceUp),
		Width:            h.Width,
		Length:           h.Length,
		Separations:      boolUint(h.Separations),
		TraySwitch:       boolUint(h.TraySwitch),
		Tumble:           boolUint(h.Tumble),
		CUPSWidth:        h.CUPSWidth,
		CUPSHeight:       h.CUPSHeight,
		CUPSMediaType:    h.CUPSMediaType,
		CUPSBitsPerColor: h.CUPSBitsPerColor,
		CUPSBitsPerPixel: h.CUPSBitsPerPixel,
		CUPSBytesPerLine: h.CUPSBytesPerLine,
		CUPSColorOrder:   uint32(h.CUPSColorOrder),
		CUPSColorSpace:   uint32(h.CUPSColorSpace),
		CUPSCompression:  h.CUPSCompression,
		CUPSRowCount:     h.CUPSRowCount,
		CUPSRowFeed:      h.CUPSRowFeed,
		CUPSRowStep:      h.CUPSRowStep,
	}
	return binary.Write(e.w, e.bo, &data)
}

func (e *Encoder) writeV2Header(h *PageHeader) error {
	if err := e.writeV1Header(h); err != nil {
		return err
	}

	data := struct {
		CUPSNumColors               uint32
		CUPSBorderlessScalingFactor float32
		CUPSPageSize                [2]float32
		CUPSImagingBBox             CUPSBoundingBox
		CUPSInteger                 [16]uint32
		CUPSReal                    [16]float32
	}{
		CUPSNumColors:               h.CUPSNumColors,
		CUPSBorderlessScalingFactor: h.CUPSBorderlessScalingFactor,
		CUPSPageSize:                h.CUPSPageSize,
		CUPSImagingBBox:             h.CUPSImagingBBox,
		CUPSInteger:                 h.CUPSInteger,
		CUPSReal:                    h.CUPSReal,
	}
	if err := binary.Write(e.w, e.bo, &data); err != nil {
		return err
	}

	for _, s := range h.CUPSString {
		if err := e.writeCString(s); err != nil {
			return err
		}
	}
	for _, s := range []string{h.CUPSMarkerType, h.CUPSRenderingIntent, h.CUPSPageSizeName} {
		if err := e.writeCString(s); err != nil {
			return err
		}
	}
	return nil
}
