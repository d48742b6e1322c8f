package pipeline

import (
	"fmt"
	"io"
	"strings"
)

// Reporter writes the Progress Reporter's (C8) line-oriented protocol
// to the error channel (spec.md §4.8): `ATTR: name=value` updates a
// job attribute, `STATE: [+|-]keyword[,keyword...]` adds, removes, or
// sets printer-state-reasons, and anything else is free-form debug
// log passed through unprefixed.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w (typically the process's
// stderr).
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Attr emits "ATTR: name=value".
func (r *Reporter) Attr(name string, value any) error {
	return r.line(fmt.Sprintf("ATTR: %s=%v", name, value))
}

// State emits "STATE: [+|-]keyword[,keyword...]", stripping any
// `-error`, `-warning`, or `-report` suffix from each keyword before
// writing it, per spec.md §4.8.
func (r *Reporter) State(keywords ...string) error {
	stripped := make([]string, len(keywords))
	for i, k := range keywords {
		stripped[i] = stripStateSuffix(k)
	}
	return r.line("STATE: " + strings.Join(stripped, ","))
}

func stripStateSuffix(keyword string) string {
	sign := ""
	rest := keyword
	if strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "-") {
		sign, rest = rest[:1], rest[1:]
	}
	for _, suffix := range []string{"-error", "-warning", "-report"} {
		rest = strings.TrimSuffix(rest, suffix)
	}
	return sign + rest
}

// Log emits an unprefixed free-form debug line.
func (r *Reporter) Log(format string, args ...any) error {
	return r.line(fmt.Sprintf(format, args...))
}

func (r *Reporter) line(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}
