package tagger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrKeywordSource is matched by every error returned from LoadKeywords.
var ErrKeywordSource = errors.New("keyword source unavailable")

// KeywordSourceError reports a keyword source that could not be read.
type KeywordSourceError struct {
	Source string
	Err    error
}

func (e *KeywordSourceError) Error() string {
	return fmt.Sprintf("load keywords from %s: %v", e.Source, e.Err)
}

func (e *KeywordSourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrKeywordSource) hold for any KeywordSourceError.
func (e *KeywordSourceError) Is(target error) bool {
	return target == ErrKeywordSource
}

// Source yields raw keyword entries.
type Source interface {
	Name() string
	Entries() ([]string, error)
}

type fileSource struct {
	path string
}

// FileSource reads a newline-delimited keyword file.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) Entries() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}

type readerSource struct {
	name string
	r    io.Reader
}

// ReaderSource reads newline-delimited keywords from r. The name only shows up
// in error messages.
func ReaderSource(name string, r io.Reader) Source {
	return readerSource{name: name, r: r}
}

func (s readerSource) Name() string { return s.name }

func (s readerSource) Entries() ([]string, error) {
	return readLines(s.r)
}

type literalSource []string

// LiteralSource wraps an in-memory keyword list.
func LiteralSource(keywords ...string) Source {
	return literalSource(keywords)
}

func (s literalSource) Name() string { return "literal" }

func (s literalSource) Entries() ([]string, error) {
	return []string(s), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: invalid UTF-8", lineNo)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadKeywords reads src and normalizes its entries: surrounding whitespace
// is trimmed, entries are lowercased and blank entries dropped. Order is kept
// and duplicates are left in place.
func LoadKeywords(src Source) (Vocabulary, error) {
	entries, err := src.Entries()
	if err != nil {
		return nil, &KeywordSourceError{Source: src.Name(), Err: err}
	}

	vocab := make(Vocabulary, 0, len(entries))
	for _, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e))
		if kw == "" {
			continue
		}
		vocab = append(vocab, kw)
	}
	return vocab, nil
}
