package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"csdash/internal/config"
	"csdash/internal/handlers"
	"csdash/internal/metrics"
	"csdash/internal/middleware"
	"csdash/internal/notes"
	"csdash/internal/tagger"
	"csdash/internal/uploads"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Rules    *config.ReportsConfig
	Vocab    *tagger.Holder
	Cache    *uploads.Cache
	Notes    notes.Store
	Recorder *metrics.Recorder
	DB       handlers.Pinger // nil without a database
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, d Deps) error {
	authMiddleware := middleware.NewAuthMiddleware()

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
	if err != nil {
		return err
	}
	if !s.Cfg.IsPasswordEnabled() && !s.Cfg.IsOIDCEnabled() {
		slog.Warn("no login method configured; set APP_PASSWORD or OIDC_ISSUER")
	}

	dashboardHandler := handlers.NewDashboardHandler(s.Cfg, d.Vocab, d.Recorder)
	reportHandler := handlers.NewReportHandler(s.Cfg, d.Rules, d.Vocab, d.Cache, d.Recorder)
	downloadHandler := handlers.NewDownloadHandler(d.Cache)
	notesHandler := handlers.NewNotesHandler(d.Notes, s.Cfg)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Vocab)

	// Public routes
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.App.Get("/login", authMiddleware.OptionalAuth, authHandler.LoginPage)
	s.App.Post("/login", authHandler.LoginSubmit)
	s.App.Get("/logout", authHandler.Logout)
	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)

	// Dashboards
	auth := authMiddleware.RequireAuth
	s.App.Get("/", auth, dashboardHandler.Index)

	s.App.Get("/reports/support-notes", auth, reportHandler.SupportNotesPage)
	s.App.Post("/reports/support-notes", auth, reportHandler.SupportNotes)
	s.App.Get("/reports/deviations", auth, reportHandler.DeviationsPage)
	s.App.Post("/reports/deviations", auth, reportHandler.Deviations)
	s.App.Get("/reports/quicknotes", auth, reportHandler.QuickNotesPage)
	s.App.Post("/reports/quicknotes", auth, reportHandler.QuickNotes)
	s.App.Get("/reports/revenue", auth, reportHandler.RevenuePage)
	s.App.Post("/reports/revenue", auth, reportHandler.Revenue)
	s.App.Post("/reports/revenue/:token/analyze", auth, reportHandler.RevenueAnalyze)
	s.App.Get("/reports/solar", auth, reportHandler.SolarPage)
	s.App.Post("/reports/solar", auth, reportHandler.Solar)
	s.App.Get("/download/:token", auth, downloadHandler.Download)

	// Overview notes
	s.App.Get("/notes", auth, notesHandler.Index)
	s.App.Post("/notes", auth, notesHandler.CreateNote)
	s.App.Post("/notes/:id/delete", auth, notesHandler.DeleteNote)
	s.App.Get("/notes/export", auth, notesHandler.Export)
	s.App.Post("/notes/import", auth, notesHandler.Import)
	s.App.Post("/articles", auth, notesHandler.CreateArticle)
	s.App.Post("/articles/:id/delete", auth, notesHandler.DeleteArticle)

	return nil
}
