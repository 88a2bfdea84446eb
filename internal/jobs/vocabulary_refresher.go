package jobs

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"csdash/internal/tagger"
)

// VocabularyRefresher periodically reloads the keyword source into a holder.
// A failed load keeps the previous vocabulary in place.
type VocabularyRefresher struct {
	holder   *tagger.Holder
	source   tagger.Source
	interval time.Duration
}

// NewVocabularyRefresher creates a new refresher.
func NewVocabularyRefresher(holder *tagger.Holder, source tagger.Source, interval time.Duration) *VocabularyRefresher {
	return &VocabularyRefresher{holder: holder, source: source, interval: interval}
}

// Start runs the refresh loop until ctx is cancelled.
func (r *VocabularyRefresher) Start(ctx context.Context) {
	slog.Info("vocabulary refresher started", "source", r.source.Name(), "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("vocabulary refresher stopped")
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

// refresh reloads the source and reports whether the vocabulary changed.
func (r *VocabularyRefresher) refresh() bool {
	before := r.holder.Current()
	if err := r.holder.Reload(r.source); err != nil {
		slog.Error("failed to reload keywords", "source", r.source.Name(), "error", err)
		return false
	}
	after := r.holder.Current()
	if before.Degraded || !slices.Equal(before.Vocabulary, after.Vocabulary) {
		slog.Info("keywords reloaded", "source", r.source.Name(), "keywords", len(after.Vocabulary))
		return true
	}
	return false
}
