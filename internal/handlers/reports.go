package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"csdash/internal/config"
	"csdash/internal/metrics"
	"csdash/internal/middleware"
	"csdash/internal/models"
	"csdash/internal/reports"
	"csdash/internal/sheet"
	"csdash/internal/tagger"
	"csdash/internal/uploads"
	"csdash/internal/validation"
)

// ReportHandler serves the spreadsheet dashboards.
type ReportHandler struct {
	cfg      *config.Config
	rules    *config.ReportsConfig
	vocab    *tagger.Holder
	cache    *uploads.Cache
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewReportHandler creates a new report handler.
func NewReportHandler(cfg *config.Config, rules *config.ReportsConfig, vocab *tagger.Holder, cache *uploads.Cache, recorder *metrics.Recorder) *ReportHandler {
	return &ReportHandler{
		cfg:      cfg,
		rules:    rules,
		vocab:    vocab,
		cache:    cache,
		recorder: recorder,
		now:      time.Now,
	}
}

// SupportNotesPage renders the support-note analysis upload form.
func (h *ReportHandler) SupportNotesPage(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "reports/support_notes", fiber.Map{
		"Required": h.rules.SupportNotes.RequiredColumns,
	})
}

// SupportNotes tags the SupportNote column of an uploaded controlling report.
func (h *ReportHandler) SupportNotes(c fiber.Ctx) error {
	data := fiber.Map{"Required": h.rules.SupportNotes.RequiredColumns}

	t, ok, err := h.readUpload(c, "reports/support_notes", data)
	if !ok {
		return err
	}

	snap := h.vocab.Current()
	res, err := reports.AnalyzeSupportNotes(t, snap.Vocabulary, h.rules.SupportNotes)
	if err != nil {
		return h.failed(c, reports.SupportNotes, "reports/support_notes", data, err)
	}
	res.Summary.Degraded = snap.Degraded

	token, err := h.export("analyseret_controlling_report.xlsx", res.Sheets())
	if err != nil {
		return err
	}
	h.record(c, res.Summary, "")

	data["Messages"] = res.Messages
	data["Matched"] = newTableView(res.Matched)
	data["Unmatched"] = newTableView(res.Unmatched)
	data["Customers"] = res.Customers
	data["DownloadToken"] = token
	return h.render(c, fiber.StatusOK, "reports/support_notes", data)
}

// DeviationsPage renders the deviations upload form.
func (h *ReportHandler) DeviationsPage(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "reports/deviations", fiber.Map{
		"Required": h.rules.Deviations.RequiredColumns,
	})
}

// Deviations tags the SupportNote column of a deviations export.
func (h *ReportHandler) Deviations(c fiber.Ctx) error {
	data := fiber.Map{"Required": h.rules.Deviations.RequiredColumns}

	t, ok, err := h.readUpload(c, "reports/deviations", data)
	if !ok {
		return err
	}

	snap := h.vocab.Current()
	labels := h.rules.SupportNotes
	res, err := reports.AnalyzeDeviations(t, snap.Vocabulary, labels.YesLabel, labels.NoLabel, h.rules.Deviations)
	if err != nil {
		return h.failed(c, reports.Deviations, "reports/deviations", data, err)
	}
	res.Summary.Degraded = snap.Degraded

	token, err := h.export("ikea_nl_deviations.xlsx", res.Sheets())
	if err != nil {
		return err
	}
	h.record(c, res.Summary, "")

	data["Messages"] = res.Messages
	data["Result"] = newTableView(res.Table)
	data["DownloadToken"] = token
	return h.render(c, fiber.StatusOK, "reports/deviations", data)
}

// QuickNotesPage renders the controlling QuickNotes page with last week's
// warehouse link.
func (h *ReportHandler) QuickNotesPage(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "reports/quicknotes", h.quickNotesData())
}

// QuickNotes filters a duration controlling export down to long routes with
// solution QuickNotes.
func (h *ReportHandler) QuickNotes(c fiber.Ctx) error {
	data := h.quickNotesData()

	t, ok, err := h.readUpload(c, "reports/quicknotes", data)
	if !ok {
		return err
	}

	res, err := reports.AnalyzeQuickNotes(t, h.rules.QuickNotes)
	if err != nil {
		return h.failed(c, reports.QuickNotes, "reports/quicknotes", data, err)
	}
	h.record(c, res.Summary, "")

	data["Messages"] = res.Messages
	if res.Table != nil {
		token, err := h.export("quicknotes_solutions_analyse.xlsx", res.Sheets())
		if err != nil {
			return err
		}
		groups := make([]fiber.Map, len(res.Groups))
		for i, g := range res.Groups {
			groups[i] = fiber.Map{"Customer": g.Key, "Table": newTableView(g.Table)}
		}
		data["Count"] = res.Table.Len()
		data["Groups"] = groups
		data["DownloadToken"] = token
	}
	return h.render(c, fiber.StatusOK, "reports/quicknotes", data)
}

func (h *ReportHandler) quickNotesData() fiber.Map {
	week := reports.LastWeek(h.now())
	return fiber.Map{
		"Week":         week,
		"WarehouseURL": reports.ControllingLink(h.cfg.WarehouseURL, h.rules.QuickNotes.Warehouse, h.now()),
	}
}

// RevenuePage renders the onboarding tracker upload form.
func (h *ReportHandler) RevenuePage(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "reports/revenue", h.revenueData())
}

// Revenue finds the new customers in an uploaded revenue report and asks for
// their estimated potential. The upload is cached for the second step.
func (h *ReportHandler) Revenue(c fiber.Ctx) error {
	data := h.revenueData()

	t, ok, err := h.readUpload(c, "reports/revenue", data)
	if !ok {
		return err
	}

	nc, err := reports.FindNewCustomers(t, h.rules.Revenue)
	if err != nil {
		return h.failed(c, reports.Revenue, "reports/revenue", data, err)
	}
	data["Messages"] = nc.Messages
	data["Found"] = nc.Customers.Len()
	if nc.Customers.Len() == 0 {
		return h.render(c, fiber.StatusOK, "reports/revenue", data)
	}

	token, err := h.cache.PutTable(t)
	if err != nil {
		return err
	}
	data["Token"] = token
	data["Preview"] = newTableView(nc.Preview)
	data["Customers"] = customerInputs(nc)
	return h.render(c, fiber.StatusOK, "reports/revenue", data)
}

// RevenueAnalyze applies the entered estimates to the cached upload. The
// upload is dropped once the analysis succeeds.
func (h *ReportHandler) RevenueAnalyze(c fiber.Ctx) error {
	data := h.revenueData()

	t, err := h.cache.Table(c.Params("token"))
	if errors.Is(err, uploads.ErrExpired) {
		data["Error"] = "Uploaden er udløbet. Upload filen igen."
		return h.render(c, fiber.StatusNotFound, "reports/revenue", data)
	}
	if err != nil {
		return err
	}

	nc, err := reports.FindNewCustomers(t, h.rules.Revenue)
	if err != nil {
		return h.failed(c, reports.Revenue, "reports/revenue", data, err)
	}

	estimates := make(map[int]float64, nc.Customers.Len())
	for i := range nc.Customers.Rows {
		raw := c.FormValue("est_" + strconv.Itoa(i))
		v, ok := validation.ParseEstimate(raw)
		if !ok {
			data["Token"] = c.Params("token")
			data["Preview"] = newTableView(nc.Preview)
			data["Customers"] = customerInputs(nc)
			data["Error"] = fmt.Sprintf("Ugyldigt estimat for %s: %q", nc.Label(nc.Customers.Rows[i]), raw)
			return h.render(c, fiber.StatusUnprocessableEntity, "reports/revenue", data)
		}
		estimates[i] = v
	}

	res := reports.AnalyzeOnboarding(nc, estimates, h.rules.Revenue)
	if err := h.cache.Delete(c.Params("token")); err != nil {
		slog.Warn("failed to drop cached upload", "error", err)
	}
	token, err := h.export(fmt.Sprintf("new_customers_onboarding_%d.xlsx", h.rules.Revenue.TargetYear), res.Sheets())
	if err != nil {
		return err
	}
	h.record(c, res.Summary, "")

	data["Onboarding"] = res
	data["Details"] = newTableView(res.Table)
	data["DownloadToken"] = token
	return h.render(c, fiber.StatusOK, "reports/revenue", data)
}

func (h *ReportHandler) revenueData() fiber.Map {
	return fiber.Map{
		"TargetYear":   h.rules.Revenue.TargetYear,
		"SuccessRatio": int(h.rules.Revenue.SuccessRatio * 100),
	}
}

func customerInputs(nc *reports.NewCustomersResult) []fiber.Map {
	out := make([]fiber.Map, len(nc.Customers.Rows))
	for i, r := range nc.Customers.Rows {
		out[i] = fiber.Map{"Index": i, "Label": nc.Label(r)}
	}
	return out
}

// SolarPage renders the solar weekly page for last week.
func (h *ReportHandler) SolarPage(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "reports/solar", h.solarData())
}

// Solar filters and sorts an uploaded routestats export.
func (h *ReportHandler) Solar(c fiber.Ctx) error {
	data := h.solarData()

	t, ok, err := h.readUpload(c, "reports/solar", data)
	if !ok {
		return err
	}

	res, err := reports.AnalyzeSolarWeekly(t, h.rules.Solar)
	if err != nil {
		return h.failed(c, reports.Solar, "reports/solar", data, err)
	}

	week := data["Week"].(reports.Week)
	token, err := h.export(fmt.Sprintf("solar_weekly_filtered_%s.xlsx", week.Label()), res.Sheets())
	if err != nil {
		return err
	}
	h.record(c, res.Summary, "")

	data["Messages"] = res.Messages
	data["Result"] = newTableView(res.Table)
	data["DownloadToken"] = token
	return h.render(c, fiber.StatusOK, "reports/solar", data)
}

func (h *ReportHandler) solarData() fiber.Map {
	week := reports.LastWeek(h.now())
	return fiber.Map{
		"Week":         week,
		"WarehouseURL": reports.RouteStatsLink(h.cfg.WarehouseURL, h.rules.Solar.Warehouse, week),
	}
}

// readUpload parses the "file" form field. When ok is false the response
// has been written (or err says why it could not be) and the caller returns err.
func (h *ReportHandler) readUpload(c fiber.Ctx, view string, data fiber.Map) (t *sheet.Table, ok bool, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		data["Error"] = "Vælg en fil at uploade."
		return nil, false, h.render(c, fiber.StatusBadRequest, view, data)
	}
	if valid, msg := validation.ValidateUpload(fh.Filename, fh.Size, h.cfg.MaxUploadBytes()); !valid {
		data["Error"] = msg
		return nil, false, h.render(c, fiber.StatusBadRequest, view, data)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	t, err = sheet.Read(f)
	if err != nil {
		data["Error"] = "Fejl under indlæsning af fil: " + err.Error()
		return nil, false, h.render(c, fiber.StatusUnprocessableEntity, view, data)
	}
	return t, true, nil
}

// failed renders an analysis error next to the upload form and logs the run.
func (h *ReportHandler) failed(c fiber.Ctx, report, view string, data fiber.Map, err error) error {
	var mc *reports.MissingColumnsError
	switch {
	case errors.As(err, &mc):
		data["Error"] = "Følgende nødvendige kolonner mangler: " + strings.Join(mc.Missing, ", ")
	case errors.Is(err, reports.ErrNoRows):
		data["Error"] = "Ingen rækker at analysere efter filtrering."
	default:
		data["Error"] = err.Error()
	}
	h.record(c, reports.Summary{Report: report, Degraded: h.vocab.Current().Degraded}, models.OutcomeFailed)
	return h.render(c, fiber.StatusUnprocessableEntity, view, data)
}

func (h *ReportHandler) export(name string, sheets []sheet.Sheet) (string, error) {
	data, err := sheet.Write(sheets...)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return h.cache.PutFile(&uploads.File{Name: name, ContentType: sheet.ContentType, Data: data})
}

func (h *ReportHandler) record(c fiber.Ctx, s reports.Summary, outcome string) {
	if outcome == "" {
		outcome = models.OutcomeOK
		if s.Degraded {
			outcome = models.OutcomeDegraded
		}
	}
	slog.Info("report run",
		"report", s.Report,
		"rows_in", s.RowsIn,
		"rows_out", s.RowsOut,
		"matched", s.Matched,
		"degraded", s.Degraded,
		"outcome", outcome,
	)
	h.recorder.RecordRun(models.AnalysisRun{
		Report:   s.Report,
		User:     middleware.CurrentUser(c).DisplayName(),
		RowsIn:   s.RowsIn,
		RowsOut:  s.RowsOut,
		Matched:  s.Matched,
		Degraded: s.Degraded,
		Outcome:  outcome,
	}, s.Hits)
}

func (h *ReportHandler) render(c fiber.Ctx, status int, view string, data fiber.Map) error {
	snap := h.vocab.Current()
	data["Degraded"] = snap.Degraded
	data["KeywordCount"] = len(snap.Vocabulary)
	data["KeywordSource"] = snap.Source
	return c.Status(status).Render(view, pageData(c, h.cfg, data))
}
