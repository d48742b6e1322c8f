// Command ipptransform converts a print-ready PDF or JPEG document into
// a PWG-Raster or HP PCL byte stream and writes it to a sink (stdout,
// or a socket:// device URI), per the CLI surface in spec.md §6. It
// wires together, in order: options.Load (C1), a source.Document (C4),
// job.Configure (C2), sink.Open (C9), and pipeline.Run (C7, driving
// band.Context (C3) into whichever Encoder (C5 or C6) the output MIME
// type selects); pipeline.Reporter (C8) reports progress throughout.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ippsample/ipptransform/job"
	"github.com/ippsample/ipptransform/options"
	"github.com/ippsample/ipptransform/pcl"
	"github.com/ippsample/ipptransform/pipeline"
	"github.com/ippsample/ipptransform/sink"
	"github.com/ippsample/ipptransform/source"
	"github.com/ippsample/ipptransform/source/jpeg"
	"github.com/ippsample/ipptransform/source/pdf"
)

func main() {
	if err := run(os.Environ(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(environ, args []string, usage io.Writer) error {
	opts, flags, err := options.Load(environ, args)
	if err != nil {
		return err
	}
	if flags.Help {
		fmt.Fprintln(usage, "usage: ipptransform [options] filename")
		return nil
	}

	doc, err := openDocument(flags, environ)
	if err != nil {
		return err
	}
	defer doc.Close()

	if doc.IsEncrypted() && !doc.UnlockWithEmptyPassword() {
		return fmt.Errorf("input document is encrypted and could not be unlocked")
	}
	if !doc.PermitsPrinting() {
		return fmt.Errorf("input document's owner permissions forbid printing")
	}

	report := pipeline.NewReporter(os.Stderr)

	outputMIME := coalesce(flags.OutputMIME, getenv(environ, "OUTPUT_TYPE"))

	caps := job.Capabilities{
		Resolutions: splitList(coalesce(flags.Resolutions, getenv(environ, "PWG_RASTER_DOCUMENT_RESOLUTION_SUPPORTED"))),
		Types:       splitList(coalesce(flags.Types, getenv(environ, "PWG_RASTER_DOCUMENT_TYPE_SUPPORTED"))),
		SheetBack:   coalesce(flags.SheetBack, getenv(environ, "PWG_RASTER_DOCUMENT_SHEET_BACK")),
		PageCount:   doc.PageCount(),
		// PCL output is always dithered from grayscale.
		Color: strings.EqualFold(opts["print-color-mode"], "color") && outputMIME != "application/vnd.hp-pcl",
	}

	geo, hdrs, err := job.Configure(opts, caps, func(format string, a ...any) {
		report.Log("INFO: "+format, a...)
	})
	if err != nil {
		return err
	}

	s, err := sink.Open(coalesce(flags.Device, getenv(environ, "DEVICE_URI")))
	if err != nil {
		return err
	}
	defer s.Close()

	enc, err := newEncoder(outputMIME, s)
	if err != nil {
		return err
	}

	return pipeline.Run(doc, geo, hdrs, enc, report)
}

// openDocument opens flags.Filename as the input MIME type resolved
// from -i, else the CONTENT_TYPE environment variable, else the file's
// extension (spec.md §6).
func openDocument(flags options.CLIFlags, environ []string) (source.Document, error) {
	mime := coalesce(flags.InputMIME, getenv(environ, "CONTENT_TYPE"))
	if mime == "" {
		mime = mimeFromExtension(flags.Filename)
	}

	switch {
	case strings.Contains(mime, "pdf"):
		d, err := pdf.Open(flags.Filename)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return d, nil
	case strings.Contains(mime, "jpeg"), strings.Contains(mime, "jpg"):
		d, err := jpeg.Open(flags.Filename)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported input MIME type %q", mime)
	}
}

func mimeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}

// newEncoder opens the Encoder (C5 or C6) outputMIME names, writing to
// w (spec.md §6's two output MIME types).
func newEncoder(outputMIME string, w io.Writer) (pipeline.Encoder, error) {
	switch outputMIME {
	case "application/vnd.hp-pcl":
		return pcl.NewEncoder(w), nil
	case "image/pwg-raster":
		return pipeline.NewPWGEncoder(w)
	case "":
		return nil, fmt.Errorf("output MIME type required (-m or OUTPUT_TYPE)")
	default:
		return nil, fmt.Errorf("unsupported output MIME type %q", outputMIME)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getenv looks key up in an environ-style []string ("KEY=value" pairs)
// rather than the real process environment, so run is a pure function
// of its arguments and testable without mutating os.Environ.
func getenv(environ []string, key string) string {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}
