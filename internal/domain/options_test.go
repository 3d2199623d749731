package domain

import (
	"errors"
	"testing"
)

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		pages int
		want  []PageRange
	}{
		{"spans and singles", "1-3, 4-8, 10", 10, []PageRange{{1, 3}, {4, 8}, {10, 10}}},
		{"drops out of range", "1-2, 5-9", 6, []PageRange{{1, 2}}},
		{"drops malformed", "a-b, 2, 3-", 4, []PageRange{{2, 2}}},
		{"drops reversed", "3-1, 2-3", 4, []PageRange{{2, 3}}},
		{"whitespace", "  2 - 3 ", 4, []PageRange{{2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRanges(tt.spec, tt.pages)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestParsePageRanges_NoneValid(t *testing.T) {
	if _, err := ParsePageRanges("0, 7-9", 5); !errors.Is(err, ErrNoValidRanges) {
		t.Fatalf("expected ErrNoValidRanges, got %v", err)
	}
}

func TestPageRange_String(t *testing.T) {
	if s := (PageRange{Start: 2, End: 2}).String(); s != "2" {
		t.Fatalf("unexpected %q", s)
	}
	if s := (PageRange{Start: 2, End: 5}).String(); s != "2-5" {
		t.Fatalf("unexpected %q", s)
	}
}

func TestParseCompressionLevel(t *testing.T) {
	if lvl, _ := ParseCompressionLevel(""); lvl != CompressionMedium {
		t.Fatalf("expected medium default, got %q", lvl)
	}
	if lvl, _ := ParseCompressionLevel("HIGH"); lvl != CompressionHigh {
		t.Fatalf("expected high, got %q", lvl)
	}
	var vErr *ValidationError
	if _, err := ParseCompressionLevel("extreme"); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWatermarkSpec_Validate(t *testing.T) {
	spec := DefaultWatermarkSpec()
	if err := spec.Validate(); !errors.Is(err, ErrWatermarkEmpty) {
		t.Fatalf("expected ErrWatermarkEmpty, got %v", err)
	}

	spec.Text = "CONFIDENTIAL"
	if err := spec.Validate(); err != nil {
		t.Fatalf("expected defaults to be valid, got %v", err)
	}

	spec.Opacity = 5
	if err := spec.Validate(); err == nil {
		t.Fatalf("expected opacity below 10 to be rejected")
	}

	spec.Opacity = 50
	spec.Position = "middle"
	if err := spec.Validate(); err == nil {
		t.Fatalf("expected unknown position to be rejected")
	}
}

func TestResolveMIMEType(t *testing.T) {
	if got := ResolveMIMEType("", []byte("%PDF-1.7\n")); got != PDFMIMEType {
		t.Fatalf("expected sniffed pdf, got %q", got)
	}
	if got := ResolveMIMEType("application/octet-stream", []byte("%PDF-1.4")); got != PDFMIMEType {
		t.Fatalf("expected sniffed pdf for octet-stream, got %q", got)
	}
	if got := ResolveMIMEType("text/plain", []byte("%PDF-1.4")); got != "text/plain" {
		t.Fatalf("declared type must win, got %q", got)
	}
}

func TestParseSplitMode(t *testing.T) {
	if m, err := ParseSplitMode(""); err != nil || m != SplitAll {
		t.Fatalf("expected all by default, got %q %v", m, err)
	}
	if m, _ := ParseSplitMode("Range"); m != SplitRange {
		t.Fatalf("expected range, got %q", m)
	}
	if _, err := ParseSplitMode("custom"); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}

func TestParseConvertFormat(t *testing.T) {
	if f, err := ParseConvertFormat(""); err != nil || f != FormatText {
		t.Fatalf("expected text by default, got %q %v", f, err)
	}
	if f, _ := ParseConvertFormat("WORD"); f != FormatWord {
		t.Fatalf("expected word, got %q", f)
	}
	if _, err := ParseConvertFormat("image"); err == nil {
		t.Fatal("expected image to be rejected")
	}
}
