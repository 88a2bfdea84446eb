package tagger

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadKeywords_Normalizes(t *testing.T) {
	src := LiteralSource("  Road Closed ", "", "NO ACCESS", "   ", "extra time", "no access")

	got, err := LoadKeywords(src)
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}

	want := Vocabulary{"road closed", "no access", "extra time", "no access"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeywords_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	content := "Ventetid\n\n  Road closed\r\nKunde ikke hjemme\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadKeywords(FileSource(path))
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}

	want := Vocabulary{"ventetid", "road closed", "kunde ikke hjemme"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeywords_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	vocab, err := LoadKeywords(FileSource(path))
	if err == nil {
		t.Fatal("LoadKeywords() expected error for missing file")
	}
	if vocab != nil {
		t.Errorf("LoadKeywords() vocab = %v, want nil", vocab)
	}
	if !errors.Is(err, ErrKeywordSource) {
		t.Errorf("errors.Is(err, ErrKeywordSource) = false for %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(err, fs.ErrNotExist) = false for %v", err)
	}

	var srcErr *KeywordSourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error is %T, want *KeywordSourceError", err)
	}
	if srcErr.Source != path {
		t.Errorf("Source = %q, want %q", srcErr.Source, path)
	}
}

func TestLoadKeywords_InvalidUTF8(t *testing.T) {
	src := ReaderSource("upload", strings.NewReader("delay\n\xff\xfe bad\n"))

	_, err := LoadKeywords(src)
	if !errors.Is(err, ErrKeywordSource) {
		t.Fatalf("LoadKeywords() error = %v, want ErrKeywordSource", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestHolder(t *testing.T) {
	h, err := NewHolder(LiteralSource("Delay"))
	if err != nil {
		t.Fatalf("NewHolder() error = %v", err)
	}
	snap := h.Current()
	if snap.Degraded {
		t.Error("fresh holder should not be degraded")
	}
	if diff := cmp.Diff(Vocabulary{"delay"}, snap.Vocabulary); diff != "" {
		t.Errorf("vocabulary mismatch:\n%s", diff)
	}

	// A failed reload keeps the previous snapshot.
	if err := h.Reload(FileSource(filepath.Join(t.TempDir(), "gone.txt"))); err == nil {
		t.Fatal("Reload() expected error")
	}
	if h.Current() != snap {
		t.Error("failed reload replaced the snapshot")
	}
}

func TestHolder_DegradedOnInitialFailure(t *testing.T) {
	h, err := NewHolder(FileSource(filepath.Join(t.TempDir(), "gone.txt")))
	if err == nil {
		t.Fatal("NewHolder() expected error")
	}
	snap := h.Current()
	if !snap.Degraded {
		t.Error("holder should be degraded")
	}
	if len(snap.Vocabulary) != 0 {
		t.Errorf("degraded vocabulary = %v, want empty", snap.Vocabulary)
	}
	if res := MatchString("no access anywhere", snap.Vocabulary); res.Verdict {
		t.Error("degraded vocabulary produced a match")
	}
}
