package tagger

import (
	"sync/atomic"
	"time"
)

// Snapshot is a vocabulary together with how it was obtained.
type Snapshot struct {
	Vocabulary Vocabulary
	Source     string
	LoadedAt   time.Time
	// Degraded is set when the last load failed and the vocabulary is empty.
	Degraded bool
	Err      error
}

// Holder publishes the current vocabulary snapshot. Analysis runs call Current
// once and use that snapshot for the whole pass.
type Holder struct {
	v atomic.Pointer[Snapshot]
}

// NewHolder loads src into a new Holder. A failed load leaves the holder in
// degraded mode with an empty vocabulary; the error is returned as well so the
// caller can log it.
func NewHolder(src Source) (*Holder, error) {
	h := &Holder{}
	err := h.Reload(src)
	if err != nil {
		h.v.Store(&Snapshot{Source: src.Name(), LoadedAt: time.Now(), Degraded: true, Err: err})
	}
	return h, err
}

// Reload loads src and publishes it. On failure the current snapshot is kept.
func (h *Holder) Reload(src Source) error {
	vocab, err := LoadKeywords(src)
	if err != nil {
		return err
	}
	h.v.Store(&Snapshot{Vocabulary: vocab, Source: src.Name(), LoadedAt: time.Now()})
	return nil
}

// Set publishes vocab directly.
func (h *Holder) Set(vocab Vocabulary, source string) {
	h.v.Store(&Snapshot{Vocabulary: vocab, Source: source, LoadedAt: time.Now()})
}

// Current returns the published snapshot, never nil.
func (h *Holder) Current() *Snapshot {
	if s := h.v.Load(); s != nil {
		return s
	}
	return &Snapshot{Degraded: true}
}
