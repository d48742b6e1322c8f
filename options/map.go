package options

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Map is the flattened, lowercase-hyphenated option map the rest of the
// engine consumes (spec.md §3's "Option Map"). Unlike the PAPI parse tree
// above (a []Option, preserving multi-valued options and nested
// collections as raw substrings), a Map has already had its three sources
// merged and only keeps the winning scalar value per name.
type Map map[string]string

// ConfigError reports a fatal, engine-boundary configuration problem: an
// unknown flag, a missing flag argument, an unsupported MIME type, a bad
// resolution string, an unknown media name, or an out-of-range copies
// count (spec.md §7).
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

// NewConfigError builds a ConfigError from a format string, the same way
// the rest of the engine's error boundary reports failures.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// CLIFlags holds the top-level, non-"-o" inputs to the ipptransform
// command line (spec.md §6).
type CLIFlags struct {
	Device      string // -d
	InputMIME   string // -i
	OutputMIME  string // -m
	Resolutions string // -r
	SheetBack   string // -s
	Types       string // -t
	Verbose     int    // -v, repeatable; seeded from SERVER_LOGLEVEL
	Help        bool   // --help
	Filename    string // positional operand
}

// FromEnviron translates a process environment snapshot into a Map,
// folding in IPP_* variables (prefix stripped, case lowered, "_" -> "-").
// PRINTER_MEDIA_DEFAULT and PRINTER_SIDES_DEFAULT are kept under their
// own "printer-media-default"/"printer-sides-default" keys rather than
// written into "media"/"sides" directly: per spec.md §4.2 they're a
// fallback consulted only when the job carries no media/sides option at
// all, not an override of one that is present. This is a pure function
// of the snapshot: the engine never re-reads the environment after
// startup (spec.md §9).
func FromEnviron(environ []string) Map {
	m := make(Map)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, "IPP_") {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(k[len("IPP_"):], "_", "-"))
		if name != "" {
			m[name] = v
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "PRINTER_MEDIA_DEFAULT":
			m["printer-media-default"] = v
		case "PRINTER_SIDES_DEFAULT":
			m["printer-sides-default"] = v
		}
	}
	return m
}

// Merge applies a "-o" clause to m in place. A clause is a
// space-separated run of "name=value" pairs, where a value may itself be
// a brace-delimited collection (e.g. media-col={media-size-name=...}) or
// a quoted string containing spaces; those are tokenized whole rather
// than split on their interior spaces. A token with no "=" stops parsing
// of the remaining pairs in the clause (the pair boundary is where a
// malformed clause is silently dropped, per spec.md §4.1).
func (m Map) Merge(clause string) {
	for _, tok := range splitClause(strings.TrimSpace(clause)) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			return
		}
		if k == "" {
			continue
		}
		m[strings.ToLower(k)] = v
	}
}

// splitClause tokenizes a "-o" clause on unquoted, unbraced spaces.
func splitClause(s string) []string {
	var tokens []string
	var buf strings.Builder
	depth := 0
	var quote byte
	escape := false
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escape:
			buf.WriteByte(c)
			escape = false
		case c == '\\':
			buf.WriteByte(c)
			escape = true
		case quote != 0:
			buf.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			buf.WriteByte(c)
		case c == '{':
			depth++
			buf.WriteByte(c)
		case c == '}':
			if depth > 0 {
				depth--
			}
			buf.WriteByte(c)
		case c == ' ' && depth == 0:
			flush()
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return tokens
}

// Sub parses a brace-delimited collection value (the value bound to
// media-col or media-size) into its own Map, reusing the PAPI grammar's
// "name=value name2=value2" decoding for the inner content.
func Sub(value string) (Map, error) {
	opts, err := ParseOptions(value)
	if err != nil {
		return nil, err
	}
	m := make(Map, len(opts))
	for _, o := range opts {
		if len(o.Values) > 0 {
			m[o.Name] = o.Values[0]
		} else {
			m[o.Name] = ""
		}
	}
	return m, nil
}

// stringList is a repeatable flag.Value that appends each occurrence.
type stringList struct{ values *[]string }

func (s stringList) String() string { return "" }
func (s stringList) Set(v string) error {
	*s.values = append(*s.values, v)
	return nil
}

// verboseFlag is a repeatable, count-accumulating flag.Value for "-v".
type verboseFlag int

func (v *verboseFlag) String() string { return fmt.Sprintf("%d", int(*v)) }
func (v *verboseFlag) IsBoolFlag() bool { return true }
func (v *verboseFlag) Set(string) error {
	*v++
	return nil
}

// verbosityFromEnviron maps SERVER_LOGLEVEL to an initial -v count
// (spec.md §6: debug -> 2, info -> 1).
func verbosityFromEnviron(environ []string) int {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k != "SERVER_LOGLEVEL" {
			continue
		}
		switch v {
		case "debug":
			return 2
		case "info":
			return 1
		}
	}
	return 0
}

// Load builds the merged option Map and top-level CLIFlags from a
// process environment snapshot and a command line's argument vector
// (spec.md §4.1, §6). It fails for an unknown flag, a missing flag
// argument, a missing filename operand, or extra operands after the
// filename; --help returns flags.Help == true with a nil error so the
// caller can exit 0 rather than 1.
func Load(environ []string, args []string) (Map, CLIFlags, error) {
	m := FromEnviron(environ)

	fs := flag.NewFlagSet("ipptransform", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	flags := CLIFlags{Verbose: verbosityFromEnviron(environ)}
	var oClauses []string
	fs.StringVar(&flags.Device, "d", "", "device URI, socket://host:port")
	fs.StringVar(&flags.InputMIME, "i", "", "input MIME type")
	fs.StringVar(&flags.OutputMIME, "m", "", "output MIME type")
	fs.StringVar(&flags.Resolutions, "r", "", "comma-separated supported resolutions")
	fs.StringVar(&flags.SheetBack, "s", "", "sheet-back keyword")
	fs.StringVar(&flags.Types, "t", "", "comma-separated supported raster types")
	fs.Var(stringList{&oClauses}, "o", `option clause "name=value ...", repeatable`)
	fs.Var((*verboseFlag)(&flags.Verbose), "v", "increase verbosity")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			flags.Help = true
			return m, flags, nil
		}
		return nil, CLIFlags{}, NewConfigError("%v", err)
	}

	for _, clause := range oClauses {
		m.Merge(clause)
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
		if flags.Help {
			return m, flags, nil
		}
		return nil, CLIFlags{}, NewConfigError("missing filename operand")
	case 1:
		flags.Filename = rest[0]
	default:
		return nil, CLIFlags{}, NewConfigError("unexpected extra arguments: %v", rest[1:])
	}

	return m, flags, nil
}
