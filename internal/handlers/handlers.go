package handlers

import (
	"github.com/gofiber/fiber/v3"

	"csdash/internal/config"
	"csdash/internal/middleware"
	"csdash/internal/sheet"
)

// pageData adds what the layout needs to data: the logged-in user and the
// site branding.
func pageData(c fiber.Ctx, cfg *config.Config, data fiber.Map) fiber.Map {
	data["User"] = middleware.CurrentUser(c)
	data["SiteTitle"] = cfg.SiteTitle
	data["SiteTagline"] = cfg.SiteTagline
	data["SiteFooter"] = cfg.SiteFooter
	data["SiteLogoURL"] = cfg.SiteLogoURL
	return data
}

// TableView is a table flattened to strings for templates.
type TableView struct {
	Columns []string
	Rows    [][]string
}

func newTableView(t *sheet.Table) *TableView {
	if t == nil {
		return nil
	}
	v := &TableView{Columns: t.Columns, Rows: make([][]string, len(t.Rows))}
	for i, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = t.Text(r, col)
		}
		v.Rows[i] = row
	}
	return v
}
