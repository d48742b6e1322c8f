package job

import (
	"strconv"
	"strings"

	"github.com/ippsample/ipptransform/options"
	"github.com/ippsample/ipptransform/raster"
)

// Color type names (spec.md §3).
const (
	ColorTypeGray = "sgray_8"
	ColorTypeRGB  = "srgb_8"
)

// Sides values (spec.md §3).
const (
	SidesOneSided       = "one-sided"
	SidesTwoSidedLong   = "two-sided-long-edge"
	SidesTwoSidedShort  = "two-sided-short-edge"
)

// Sheet-back keywords (spec.md §3).
const (
	SheetBackNormal       = "normal"
	SheetBackFlipped      = "flipped"
	SheetBackManualTumble = "manual-tumble"
	SheetBackRotated      = "rotated"
)

// Capabilities bundles the inputs spec.md §4.2 lists beyond the raw
// option map: the printer's supported resolutions and raster types, its
// sheet-back behavior, the document's page count, and whether this is a
// color-capable job (a decision the surrounding IPP server has already
// made from print-color-mode; Configure only consumes it).
type Capabilities struct {
	Resolutions []string // e.g. {"300dpi", "600dpi"}
	Types       []string // e.g. {"sgray_8", "srgb_8"}
	SheetBack   string
	PageCount   int
	Color       bool
}

// Geometry is spec.md §3's immutable PageGeometry.
type Geometry struct {
	Media     MediaEntry
	XDPI      uint32
	YDPI      uint32
	ColorType string
	Sides     string
	Copies    int
	SheetBack string
}

// Headers bundles the front and back RasterHeader records spec.md §3
// describes, plus the derived TotalPageCount the pipeline and its tests
// check against the number of start_page calls actually made. CUPS's
// wire-level page header has no such field; it lives here as job-level
// bookkeeping the pipeline consults directly.
type Headers struct {
	Front          *raster.PageHeader
	Back           *raster.PageHeader
	TotalPageCount uint32
}

// Configure resolves a job's geometry and headers from its option map
// and the printer's capabilities, per spec.md §4.2. logf, if non-nil, is
// called for recoverable ("Info") conditions, such as an
// unparseable/unsupported printer-resolution option that's discarded
// rather than failing the job (spec.md §7).
func Configure(opts options.Map, caps Capabilities, logf func(format string, args ...any)) (*Geometry, *Headers, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	xdpi, ydpi, err := resolveResolution(opts, caps, logf)
	if err != nil {
		return nil, nil, err
	}

	colorType := ColorTypeGray
	if caps.Color && containsFold(caps.Types, ColorTypeRGB) {
		colorType = ColorTypeRGB
	}

	media, err := resolveMedia(opts)
	if err != nil {
		return nil, nil, err
	}

	sides := opts["sides"]
	if sides == "" {
		sides = opts["printer-sides-default"]
	}
	if sides == "" {
		sides = SidesOneSided
	}
	if caps.PageCount == 1 {
		sides = SidesOneSided
	}

	copies, err := resolveCopies(opts)
	if err != nil {
		return nil, nil, err
	}

	sheetBack := caps.SheetBack
	if sheetBack == "" {
		sheetBack = SheetBackNormal
	}

	geo := &Geometry{
		Media:     media,
		XDPI:      xdpi,
		YDPI:      ydpi,
		ColorType: colorType,
		Sides:     sides,
		Copies:    copies,
		SheetBack: sheetBack,
	}

	headers, err := buildHeaders(geo, caps.PageCount)
	if err != nil {
		return nil, nil, err
	}
	return geo, headers, nil
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// resolveResolution implements spec.md §4.2's four-step priority.
func resolveResolution(opts options.Map, caps Capabilities, logf func(string, ...any)) (xdpi, ydpi uint32, err error) {
	supported := make([]options.Resolution, 0, len(caps.Resolutions))
	for _, s := range caps.Resolutions {
		r, ok := options.ParseResolution(strings.TrimSpace(s))
		if !ok {
			continue
		}
		supported = append(supported, r)
	}

	// 1. printer-resolution, if it parses and is in the supported list.
	if v, ok := opts["printer-resolution"]; ok && v != "" {
		r, ok := options.ParseResolution(v)
		if !ok {
			logf("unsupported printer-resolution value %q, ignoring", v)
		} else if !resolutionSupported(supported, r) {
			logf("printer-resolution %q is not in the supported list, ignoring", v)
		} else {
			return uint32(r.X), uint32(r.Y), nil
		}
	}

	// 2. print-quality -> index into supported list.
	if len(supported) > 0 {
		if v, ok := opts["print-quality"]; ok && v != "" {
			var idx int
			switch v {
			case "3", "draft":
				idx = 0
			case "4", "normal":
				idx = len(supported) / 2
			case "5", "high":
				idx = len(supported) - 1
			default:
				idx = -1
			}
			if idx >= 0 {
				r := supported[idx]
				return uint32(r.X), uint32(r.Y), nil
			}
		}
	}

	// 3. median of supported list.
	if len(supported) > 0 {
		r := supported[len(supported)/2]
		return uint32(r.X), uint32(r.Y), nil
	}

	// 4. unresolved.
	return 0, 0, options.NewConfigError("no usable resolution: supported list %v is empty or unparseable", caps.Resolutions)
}

func resolutionSupported(supported []options.Resolution, r options.Resolution) bool {
	for _, s := range supported {
		if s == r {
			return true
		}
	}
	return false
}

// resolveMedia implements spec.md §4.2's media resolution priority.
func resolveMedia(opts options.Map) (MediaEntry, error) {
	if name, ok := opts["media"]; ok && name != "" {
		e, ok := LookupMedia(name)
		if !ok {
			return MediaEntry{}, options.NewConfigError("Unknown \"media\" value %q", name)
		}
		return e, nil
	}

	if col, ok := opts["media-col"]; ok && col != "" {
		sub, err := options.Sub(col)
		if err != nil {
			return MediaEntry{}, options.NewConfigError("invalid media-col: %v", err)
		}
		if name, ok := sub["media-size-name"]; ok && name != "" {
			e, ok := LookupMedia(name)
			if !ok {
				return MediaEntry{}, options.NewConfigError("Unknown \"media\" value %q", name)
			}
			return e, nil
		}
		if sizeVal, ok := sub["media-size"]; ok && sizeVal != "" {
			size, err := options.Sub(sizeVal)
			if err != nil {
				return MediaEntry{}, options.NewConfigError("invalid media-size: %v", err)
			}
			w, wok := strconv.Atoi(size["x-dimension"])
			h, hok := strconv.Atoi(size["y-dimension"])
			if wok != nil || hok != nil {
				return MediaEntry{}, options.NewConfigError("invalid media-size dimensions %v", size)
			}
			return MediaEntry{
				PWGName:   "custom",
				WidthPWG:  uint32(w),
				HeightPWG: uint32(h),
			}, nil
		}
	}

	if name, ok := opts["printer-media-default"]; ok && name != "" {
		e, ok := LookupMedia(name)
		if !ok {
			return MediaEntry{}, options.NewConfigError("Unknown \"media\" value %q", name)
		}
		return e, nil
	}

	e, _ := LookupMedia(DefaultMediaName)
	return e, nil
}

func resolveCopies(opts options.Map) (int, error) {
	v, ok := opts["copies"]
	if !ok || v == "" {
		return 1, nil
	}
	n, ok := options.ParseNumber(v)
	if !ok || n < 1 || n > 9999 {
		return 0, options.NewConfigError("copies value %q out of range [1, 9999]", v)
	}
	return n, nil
}

// buildHeaders constructs the front/back RasterHeader pair (spec.md §3)
// and the job's TotalPageCount.
func buildHeaders(geo *Geometry, pageCount int) (*Headers, error) {
	bytesPerPixel := uint32(1)
	bitsPerPixel := uint32(8)
	colorSpace := raster.ColorSpacesGray
	if geo.ColorType == ColorTypeRGB {
		bytesPerPixel = 3
		bitsPerPixel = 24
		colorSpace = raster.ColorSpacesRGB
	}

	cupsWidth := mulDivRound(geo.Media.WidthPWG, geo.XDPI, pwgUnitsPerInch)
	cupsHeight := mulDivRound(geo.Media.HeightPWG, geo.YDPI, pwgUnitsPerInch)
	bytesPerLine := cupsWidth * bytesPerPixel

	pointsW := float32(geo.Media.WidthPWG) / pwgUnitsPerInch * 72
	pointsH := float32(geo.Media.HeightPWG) / pwgUnitsPerInch * 72

	duplex := geo.Sides != SidesOneSided
	tumble := geo.Sides == SidesTwoSidedShort

	base := raster.PageHeader{
		HorizDPI:         geo.XDPI,
		VertDPI:          geo.YDPI,
		Width:            geo.Media.WidthPWG,
		Length:           geo.Media.HeightPWG,
		Duplex:           duplex,
		Tumble:           tumble,
		NumCopies:        1,
		CUPSWidth:        cupsWidth,
		CUPSHeight:       cupsHeight,
		CUPSBitsPerColor: 8,
		CUPSBitsPerPixel: bitsPerPixel,
		CUPSBytesPerLine: bytesPerLine,
		CUPSColorOrder:   raster.ChunkyPixels,
		CUPSColorSpace:   colorSpace,
		CUPSPageSize:     [2]float32{pointsW, pointsH},
		CUPSPageSizeName: geo.Media.PWGName,
	}

	front := base
	back := base
	switch geo.SheetBack {
	case SheetBackFlipped, SheetBackManualTumble, SheetBackRotated:
		// back-side content is transformed before rasterization
		// (pipeline's affine transform); the back header is an
		// identical copy of the front one and encodes neither the
		// back-side transform nor the sheet-back keyword.
	}

	pagesEffective := pageCount
	if duplex && geo.Copies > 1 && pagesEffective%2 == 1 {
		pagesEffective++
	}
	total := uint32(geo.Copies * pagesEffective)

	return &Headers{Front: &front, Back: &back, TotalPageCount: total}, nil
}

func mulDivRound(a, b, c uint32) uint32 {
	return uint32((uint64(a)*uint64(b) + uint64(c)/2) / uint64(c))
}
