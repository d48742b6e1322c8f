package options

import (
	"reflect"
	"testing"
)

func TestFromEnviron(t *testing.T) {
	var tests = []struct {
		environ []string
		out     Map
	}{
		{
			[]string{"IPP_FOO_BAR=baz"},
			Map{"foo-bar": "baz"},
		},
		{
			[]string{"IPP_MEDIA=na_letter_8.5x11in", "PRINTER_MEDIA_DEFAULT=na_legal_8.5x14in"},
			Map{"media": "na_letter_8.5x11in", "printer-media-default": "na_legal_8.5x14in"},
		},
		{
			[]string{"PRINTER_SIDES_DEFAULT=two-sided-long-edge", "HOME=/root", "IPP_="},
			Map{"printer-sides-default": "two-sided-long-edge"},
		},
		{
			[]string{"IPP_SIDES=one-sided"},
			Map{"sides": "one-sided"},
		},
	}

	for _, tt := range tests {
		out := FromEnviron(tt.environ)
		if !reflect.DeepEqual(out, tt.out) {
			t.Errorf("FromEnviron(%v) = %v, want %v", tt.environ, out, tt.out)
		}
	}
}

func TestMapMerge(t *testing.T) {
	var tests = []struct {
		clause string
		in     Map
		out    Map
	}{
		{"media=na_letter_8.5x11in sides=one-sided", Map{}, Map{"media": "na_letter_8.5x11in", "sides": "one-sided"}},
		{"copies=2", Map{"sides": "two-sided-long-edge"}, Map{"sides": "two-sided-long-edge", "copies": "2"}},
		{"media-col={media-size-name=na_letter_8.5x11in}", Map{}, Map{"media-col": "{media-size-name=na_letter_8.5x11in}"}},
		{"broken sides=one-sided", Map{}, Map{}},
		{"MEDIA=na_letter_8.5x11in", Map{}, Map{"media": "na_letter_8.5x11in"}},
	}

	for _, tt := range tests {
		m := make(Map, len(tt.in))
		for k, v := range tt.in {
			m[k] = v
		}
		m.Merge(tt.clause)
		if !reflect.DeepEqual(m, tt.out) {
			t.Errorf("Merge(%q) = %v, want %v", tt.clause, m, tt.out)
		}
	}
}

func TestSplitClause(t *testing.T) {
	var tests = []struct {
		in  string
		out []string
	}{
		{"a=1 b=2", []string{"a=1", "b=2"}},
		{"media-col={media-size={x-dimension=1 y-dimension=2}}", []string{"media-col={media-size={x-dimension=1 y-dimension=2}}"}},
		{`a="has space" b=2`, []string{`a="has space"`, "b=2"}},
		{"", nil},
	}
	for _, tt := range tests {
		out := splitClause(tt.in)
		if !reflect.DeepEqual(out, tt.out) {
			t.Errorf("splitClause(%q) = %v, want %v", tt.in, out, tt.out)
		}
	}
}

func TestSub(t *testing.T) {
	m, err := Sub("media-size-name=na_letter_8.5x11in")
	if err != nil {
		t.Fatal(err)
	}
	if m["media-size-name"] != "na_letter_8.5x11in" {
		t.Errorf("Sub() = %v, missing media-size-name", m)
	}

	m, err = Sub("x-dimension=21590 y-dimension=27940")
	if err != nil {
		t.Fatal(err)
	}
	want := Map{"x-dimension": "21590", "y-dimension": "27940"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Sub() = %v, want %v", m, want)
	}
}

func TestLoad(t *testing.T) {
	environ := []string{"IPP_SIDES=one-sided", "SERVER_LOGLEVEL=debug"}
	args := []string{"-d", "socket://printer:9100", "-o", "media=na_letter_8.5x11in copies=2", "job.pdf"}

	m, flags, err := Load(environ, args)
	if err != nil {
		t.Fatal(err)
	}
	if flags.Device != "socket://printer:9100" {
		t.Errorf("Device = %q", flags.Device)
	}
	if flags.Filename != "job.pdf" {
		t.Errorf("Filename = %q", flags.Filename)
	}
	if flags.Verbose != 2 {
		t.Errorf("Verbose = %d, want 2 (from SERVER_LOGLEVEL=debug)", flags.Verbose)
	}
	if m["media"] != "na_letter_8.5x11in" || m["copies"] != "2" || m["sides"] != "one-sided" {
		t.Errorf("Load() map = %v", m)
	}
}

func TestLoadMissingFilename(t *testing.T) {
	if _, _, err := Load(nil, nil); err == nil {
		t.Fatal("expected error for missing filename")
	}
}

func TestLoadHelp(t *testing.T) {
	_, flags, err := Load(nil, []string{"--help"})
	if err != nil {
		t.Fatal(err)
	}
	if !flags.Help {
		t.Error("expected Help == true")
	}
}

func TestLoadUnknownFlag(t *testing.T) {
	if _, _, err := Load(nil, []string{"-z", "job.pdf"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestLoadRepeatedVerbose(t *testing.T) {
	_, flags, err := Load(nil, []string{"-v", "-v", "-v", "job.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if flags.Verbose != 3 {
		t.Errorf("Verbose = %d, want 3", flags.Verbose)
	}
}
