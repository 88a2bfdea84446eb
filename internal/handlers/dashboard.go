package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"csdash/internal/config"
	"csdash/internal/metrics"
	"csdash/internal/tagger"
)

// DashboardHandler renders the landing menu.
type DashboardHandler struct {
	cfg      *config.Config
	vocab    *tagger.Holder
	recorder *metrics.Recorder
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(cfg *config.Config, vocab *tagger.Holder, recorder *metrics.Recorder) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, vocab: vocab, recorder: recorder}
}

// Index renders the dashboard menu with the latest report runs.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	snap := h.vocab.Current()
	data := pageData(c, h.cfg, fiber.Map{
		"Degraded":      snap.Degraded,
		"KeywordCount":  len(snap.Vocabulary),
		"KeywordSource": snap.Source,
		"LoadedAt":      snap.LoadedAt,
	})

	runs, err := h.recorder.RecentRuns(c.Context(), 10)
	if err != nil {
		slog.Error("failed to list recent runs", "error", err)
	} else {
		data["Runs"] = runs
	}

	return c.Render("index", data)
}
