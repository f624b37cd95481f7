package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Seen in clinic today.", "Seen in clinic today."},
		{"empty", "", ""},
		{"space runs", "Seen by Meredith   Grey\t\ttoday", "Seen by Meredith Grey today"},
		{"line breaks kept", "line one\n\nline two", "line one\n\nline two"},
		{"curly apostrophe", "St. John’s", "St. John's"},
		{"smart quotes", "“stable”", "\"stable\""},
		{"dashes", "555–867—5309", "555-867-5309"},
		{"bullets", "call 555•867•5309", "call 555 867 5309"},
		{"zero width", "555\u200b-867-\u00ad5309", "555-867-5309"},
		{"fullwidth digits", "ＭＲＮ １２３４５６", "MRN 123456"},
		{"nbsp", "Dr.\u00a0Harmon", "Dr. Harmon"},
		{"ligature", "ﬁle", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeObfuscatedEmails(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Contact me at jane dot doe at example dot com", "Contact me at jane.doe@example.com"},
		{"write to jane [at] example [dot] org", "write to jane@example.org"},
		{"write to jane (at) mail (dot) example (dot) edu", "write to jane@mail.example.edu"},
		{"email jane @ example.com please", "email jane@example.com please"},
		{"JANE DOT DOE AT EXAMPLE DOT COM", "JANE.DOE@EXAMPLE.COM"},
		{"jane (at) example dot com", "jane@example.com"},
		{"already jane.doe@example.com", "already jane.doe@example.com"},
	}
	for _, tt := range tests {
		got, err := String(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLeavesOrdinaryProse(t *testing.T) {
	for _, in := range []string{
		"Spoke with mom at home. Co-signed by resident.",
		"Met at clinic dot five on the chart.",
		"Seen at bedside at 10:30.",
		"Discussed with pt. at bedside.",
		"Seen at home dot com later",
		"JANE AT EXAMPLE DOT COM",
	} {
		got, err := String(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != in {
			t.Errorf("String(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Contact me at jane dot doe at example dot com",
		"Seen by Meredith   Grey today",
		"“Quoted” — O’Connor • ＭＲＮ １２３４５６\u200b",
		"jane [at] example [dot] org and bob at mail dot example dot net",
		"\t leading and trailing \t",
		"",
	}
	for _, in := range inputs {
		once, err := String(in)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := String(once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeInvalidUTF8(t *testing.T) {
	_, err := Normalize("bad \xff\xfe bytes")
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestSpanMapsCollapsedWhitespace(t *testing.T) {
	in := "Seen by Meredith   Grey today"
	tx, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	s := strings.Index(tx.String(), "Meredith Grey")
	e := s + len("Meredith Grey")
	os, oe := tx.Span(s, e)
	if got := in[os:oe]; got != "Meredith   Grey" {
		t.Errorf("got %q", got)
	}
}

func TestSpanMapsMultiByteRunes(t *testing.T) {
	in := "Pt O’Connor seen"
	tx, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	s := strings.Index(tx.String(), "O'Connor")
	os, oe := tx.Span(s, s+len("O'Connor"))
	if got := in[os:oe]; got != "O’Connor" {
		t.Errorf("got %q", got)
	}

	lig := "ﬁle"
	tx, err = Normalize(lig)
	if err != nil {
		t.Fatal(err)
	}
	if os, oe := tx.Span(0, 1); os != 0 || oe < len("ﬁ") {
		t.Errorf("partial ligature span = [%d,%d)", os, oe)
	}
}

func TestSpanMapsObfuscatedEmail(t *testing.T) {
	in := "mail jane dot doe at example dot com now"
	tx, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	s := strings.Index(tx.String(), "jane.doe@example.com")
	if s < 0 {
		t.Fatalf("email not rewritten: %q", tx.String())
	}
	os, oe := tx.Span(s, s+len("jane.doe@example.com"))
	if got := in[os:oe]; got != "jane dot doe at example dot com" {
		t.Errorf("got %q", got)
	}
	if tx.Original() != in {
		t.Error("Original() changed")
	}
}

func TestSpanMonotonic(t *testing.T) {
	in := "“A” — ＭＲＮ  １２３ jane dot doe at example dot com\u200b end"
	tx, err := Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	prevS, prevE := 0, 0
	for i := 0; i < tx.Len(); i++ {
		s, e := tx.Span(i, i+1)
		if s < prevS || e < prevE || s >= e {
			t.Fatalf("byte %d maps to [%d,%d) after [%d,%d)", i, s, e, prevS, prevE)
		}
		prevS, prevE = s, e
	}
}
