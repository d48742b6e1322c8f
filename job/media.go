// Package job implements the Job Configurator (spec.md §4.2): resolving a
// job's media, resolution, color type, sides, copies and back-side mode
// from an options.Map into an immutable PageGeometry and the two
// RasterHeader records (front and back) the rest of the pipeline drives
// off of.
package job

// MediaEntry describes one entry of the PWG media size table: a PWG
// self-describing name (e.g. "na_letter_8.5x11in"), any legacy CUPS
// aliases CUPS itself still accepts (e.g. "Letter"), and the physical
// page size in PWG units (1/2540 inch), matching spec.md §3's
// PageGeometry.media field.
type MediaEntry struct {
	PWGName string
	Legacy  []string
	WidthPWG  uint32
	HeightPWG uint32
}

// pwgUnitsPerInch is the PWG media size unit: 1/2540 inch.
const pwgUnitsPerInch = 2540

func inPWG(inches float64) uint32 {
	return uint32(inches*pwgUnitsPerInch + 0.5)
}

func mmPWG(mm float64) uint32 {
	return uint32(mm/25.4*pwgUnitsPerInch + 0.5)
}

// mediaTable is keyed by PWG name; legacy names are resolved through
// legacyAliases below. Entries cover the sizes real IPP clients commonly
// send for document printing and the small set of CUPS legacy names
// spec.md's scenario 5 ("Unknown media fails fast") implies a lookup
// table richer than bare PWG names.
var mediaTable = []MediaEntry{
	{PWGName: "na_letter_8.5x11in", Legacy: []string{"Letter"}, WidthPWG: inPWG(8.5), HeightPWG: inPWG(11)},
	{PWGName: "na_legal_8.5x14in", Legacy: []string{"Legal"}, WidthPWG: inPWG(8.5), HeightPWG: inPWG(14)},
	{PWGName: "na_invoice_5.5x8.5in", Legacy: []string{"Statement"}, WidthPWG: inPWG(5.5), HeightPWG: inPWG(8.5)},
	{PWGName: "na_index-3x5_3x5in", Legacy: []string{"3x5"}, WidthPWG: inPWG(3), HeightPWG: inPWG(5)},
	{PWGName: "na_index-4x6_4x6in", Legacy: []string{"4x6"}, WidthPWG: inPWG(4), HeightPWG: inPWG(6)},
	{PWGName: "na_5x7_5x7in", Legacy: []string{"5x7"}, WidthPWG: inPWG(5), HeightPWG: inPWG(7)},
	{PWGName: "na_number-10_4.125x9.5in", Legacy: []string{"Env10"}, WidthPWG: inPWG(4.125), HeightPWG: inPWG(9.5)},
	{PWGName: "na_index-4x6-ext_6x8in", Legacy: nil, WidthPWG: inPWG(6), HeightPWG: inPWG(8)},
	{PWGName: "iso_a4_210x297mm", Legacy: []string{"A4"}, WidthPWG: mmPWG(210), HeightPWG: mmPWG(297)},
	{PWGName: "iso_a5_148x210mm", Legacy: []string{"A5"}, WidthPWG: mmPWG(148), HeightPWG: mmPWG(210)},
	{PWGName: "iso_a6_105x148mm", Legacy: []string{"A6"}, WidthPWG: mmPWG(105), HeightPWG: mmPWG(148)},
	{PWGName: "iso_c5_162x229mm", Legacy: []string{"EnvC5"}, WidthPWG: mmPWG(162), HeightPWG: mmPWG(229)},
	{PWGName: "iso_dl_110x220mm", Legacy: []string{"EnvDL"}, WidthPWG: mmPWG(110), HeightPWG: mmPWG(220)},
	{PWGName: "oe_postcard_4x6in", Legacy: []string{"Postcard"}, WidthPWG: inPWG(4), HeightPWG: inPWG(6)},
}

// legacyAliases maps a legacy name to its PWG name, built once from
// mediaTable.
var legacyAliases = func() map[string]string {
	m := make(map[string]string)
	for _, e := range mediaTable {
		for _, alias := range e.Legacy {
			m[alias] = e.PWGName
		}
	}
	return m
}()

var mediaByName = func() map[string]MediaEntry {
	m := make(map[string]MediaEntry, len(mediaTable))
	for _, e := range mediaTable {
		m[e.PWGName] = e
	}
	return m
}()

// LookupMedia resolves a PWG or legacy CUPS media name. ok is false for
// an unrecognized name.
func LookupMedia(name string) (MediaEntry, bool) {
	if e, ok := mediaByName[name]; ok {
		return e, true
	}
	if pwg, ok := legacyAliases[name]; ok {
		return mediaByName[pwg], true
	}
	return MediaEntry{}, false
}

// DefaultMediaName is used when no media option, media-col, or
// PRINTER_MEDIA_DEFAULT is present (spec.md §4.2).
const DefaultMediaName = "na_letter_8.5x11in"
