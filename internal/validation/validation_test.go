package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path/to/page", true, ""},
		{"valid with port", "https://example.com:8080", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/reports/solar", "/reports/solar"},
		{"/notes?q=ikea", "/notes?q=ikea"},
		{"//evil.example.com", "/"},
		{"https://evil.example.com", "/"},
		{`/\evil.example.com`, "/"},
		{"reports", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := SafeRedirect(tt.path); got != tt.want {
				t.Errorf("SafeRedirect(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		valid    bool
	}{
		{"xlsx", "report.xlsx", 100, true},
		{"uppercase extension", "REPORT.XLSX", 100, true},
		{"csv rejected", "report.csv", 100, false},
		{"no file", "", 0, false},
		{"empty file", "report.xlsx", 0, false},
		{"too large", "report.xlsx", 2048, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateUpload(tt.filename, tt.size, 1024)
			if valid != tt.valid {
				t.Errorf("ValidateUpload(%q, %d) = %v (%s), want %v", tt.filename, tt.size, valid, msg, tt.valid)
			}
			if !valid && msg == "" {
				t.Error("expected a message for invalid uploads")
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	if ok, _ := ValidateNote("Titel", "Indhold"); !ok {
		t.Error("expected valid note")
	}
	if ok, msg := ValidateNote("  ", "Indhold"); ok || msg == "" {
		t.Error("expected blank title to fail")
	}
	if ok, _ := ValidateNote("Titel", "\n"); ok {
		t.Error("expected blank body to fail")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"controlling, ikea ,proces", []string{"controlling", "ikea", "proces"}},
		{" , ,solar,", []string{"solar"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseTags(tt.in)); diff != "" {
				t.Errorf("ParseTags(%q) mismatch:\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"", 0, true},
		{"40000", 40000, true},
		{"12,5", 12.5, true},
		{"1 000", 1000, true},
		{"1.5", 1.5, true},
		{"-3", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEstimate(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseEstimate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
