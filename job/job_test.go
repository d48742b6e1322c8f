package job

import (
	"testing"

	"github.com/ippsample/ipptransform/options"
)

func baseCaps() Capabilities {
	return Capabilities{
		Resolutions: []string{"300dpi", "600dpi"},
		Types:       []string{ColorTypeGray, ColorTypeRGB},
		SheetBack:   SheetBackNormal,
		PageCount:   2,
		Color:       false,
	}
}

func TestConfigureResolutionPriority(t *testing.T) {
	// baseCaps supports {300dpi, 600dpi}: draft -> index 0, normal/high/
	// median all land on index 1 for a two-entry list.
	tests := []struct {
		name     string
		opts     options.Map
		wantXDPI uint32
	}{
		{"explicit-supported", options.Map{"printer-resolution": "600dpi"}, 600},
		{"explicit-unsupported-falls-back-to-quality", options.Map{"printer-resolution": "1200dpi", "print-quality": "high"}, 600},
		{"draft-quality", options.Map{"print-quality": "draft"}, 300},
		{"normal-quality", options.Map{"print-quality": "normal"}, 600},
		{"high-quality", options.Map{"print-quality": "high"}, 600},
		{"no-hints-median", options.Map{}, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo, _, err := Configure(tt.opts, baseCaps(), nil)
			if err != nil {
				t.Fatalf("Configure: %v", err)
			}
			if geo.XDPI != tt.wantXDPI {
				t.Errorf("XDPI = %d, want %d", geo.XDPI, tt.wantXDPI)
			}
		})
	}
}

func TestConfigureNormalQualityIndex(t *testing.T) {
	caps := baseCaps()
	geo, _, err := Configure(options.Map{"print-quality": "normal"}, caps, nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	// len(supported) == 2, normal index = 2/2 = 1 -> 600dpi.
	if geo.XDPI != 600 {
		t.Errorf("XDPI = %d, want 600", geo.XDPI)
	}
}

func TestConfigureColorType(t *testing.T) {
	caps := baseCaps()
	caps.Color = true
	geo, _, err := Configure(options.Map{}, caps, nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.ColorType != ColorTypeRGB {
		t.Errorf("ColorType = %q, want %q", geo.ColorType, ColorTypeRGB)
	}

	caps.Color = false
	geo, _, err = Configure(options.Map{}, caps, nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.ColorType != ColorTypeGray {
		t.Errorf("ColorType = %q, want %q", geo.ColorType, ColorTypeGray)
	}
}

func TestConfigureMedia(t *testing.T) {
	geo, _, err := Configure(options.Map{"media": "A4"}, baseCaps(), nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.Media.PWGName != "iso_a4_210x297mm" {
		t.Errorf("Media = %q, want iso_a4_210x297mm", geo.Media.PWGName)
	}
}

func TestConfigureUnknownMediaFails(t *testing.T) {
	_, _, err := Configure(options.Map{"media": "bogus"}, baseCaps(), nil)
	if err == nil {
		t.Fatal("expected error for unknown media")
	}
	if _, ok := err.(*options.ConfigError); !ok {
		t.Errorf("error type = %T, want *options.ConfigError", err)
	}
}

func TestConfigureMediaColSizeName(t *testing.T) {
	geo, _, err := Configure(options.Map{"media-col": "{media-size-name=na_legal_8.5x14in}"}, baseCaps(), nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.Media.PWGName != "na_legal_8.5x14in" {
		t.Errorf("Media = %q, want na_legal_8.5x14in", geo.Media.PWGName)
	}
}

func TestConfigureSidesForcedOneSidedForSinglePage(t *testing.T) {
	caps := baseCaps()
	caps.PageCount = 1
	geo, _, err := Configure(options.Map{"sides": "two-sided-long-edge"}, caps, nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.Sides != SidesOneSided {
		t.Errorf("Sides = %q, want %q for a single-page job", geo.Sides, SidesOneSided)
	}
}

func TestConfigureCopiesRange(t *testing.T) {
	if _, _, err := Configure(options.Map{"copies": "0"}, baseCaps(), nil); err == nil {
		t.Error("expected error for copies=0")
	}
	if _, _, err := Configure(options.Map{"copies": "10000"}, baseCaps(), nil); err == nil {
		t.Error("expected error for copies=10000")
	}
	geo, _, err := Configure(options.Map{"copies": "3"}, baseCaps(), nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if geo.Copies != 3 {
		t.Errorf("Copies = %d, want 3", geo.Copies)
	}
}

func TestConfigureHeaders(t *testing.T) {
	geo, headers, err := Configure(options.Map{"printer-resolution": "300dpi"}, baseCaps(), nil)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if headers.Front.HorizDPI != geo.XDPI || headers.Front.VertDPI != geo.YDPI {
		t.Errorf("header DPI %dx%d does not match geometry %dx%d",
			headers.Front.HorizDPI, headers.Front.VertDPI, geo.XDPI, geo.YDPI)
	}
	if headers.Front.CUPSWidth == 0 || headers.Front.CUPSHeight == 0 {
		t.Error("CUPSWidth/CUPSHeight must be non-zero")
	}
	if headers.Front.CUPSBytesPerLine != headers.Front.CUPSWidth {
		t.Errorf("CUPSBytesPerLine = %d, want %d for 8-bit gray", headers.Front.CUPSBytesPerLine, headers.Front.CUPSWidth)
	}
	if headers.TotalPageCount != uint32(geo.Copies*2) {
		t.Errorf("TotalPageCount = %d, want %d", headers.TotalPageCount, geo.Copies*2)
	}
}

func TestConfigureNoSupportedResolutionsFails(t *testing.T) {
	caps := baseCaps()
	caps.Resolutions = nil
	if _, _, err := Configure(options.Map{}, caps, nil); err == nil {
		t.Fatal("expected error when no resolutions are supported")
	}
}

func TestConfigureLogsDiscardedResolution(t *testing.T) {
	var logged []string
	logf := func(format string, args ...any) {
		logged = append(logged, format)
	}
	_, _, err := Configure(options.Map{"printer-resolution": "not-a-resolution"}, baseCaps(), logf)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if len(logged) == 0 {
		t.Error("expected a log call for the discarded printer-resolution value")
	}
}
