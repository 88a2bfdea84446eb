package reports

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"csdash/internal/config"
)

// Week is a Monday–Sunday reporting window.
type Week struct {
	Monday  time.Time
	Sunday  time.Time
	ISOYear int
	ISOWeek int
}

// Label renders the week the way report file names use it, e.g. "Uge 07".
func (w Week) Label() string {
	return fmt.Sprintf("Uge %02d", w.ISOWeek)
}

// YearWeek renders the warehouse Yearweek parameter, e.g. "202507".
func (w Week) YearWeek() string {
	return fmt.Sprintf("%d%02d", w.ISOYear, w.ISOWeek)
}

// LastWeek returns the full Monday–Sunday week before the one containing now.
func LastWeek(now time.Time) Week {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	thisMonday := day.AddDate(0, 0, -offset)
	lastMonday := thisMonday.AddDate(0, 0, -7)
	year, week := lastMonday.ISOWeek()
	return Week{
		Monday:  lastMonday,
		Sunday:  lastMonday.AddDate(0, 0, 6),
		ISOYear: year,
		ISOWeek: week,
	}
}

// WarehouseLink builds a download link for a warehouse report.
func WarehouseLink(baseURL string, ep config.WarehouseEndpoint, params url.Values) string {
	q := url.Values{}
	q.Set("apikey", ep.APIKey)
	q.Set("Userid", ep.UserID)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return strings.TrimRight(baseURL, "/") + "/download/" + url.PathEscape(ep.Report) + "?" + q.Encode()
}

// ControllingLink links to last week's duration controlling export.
func ControllingLink(baseURL string, ep config.WarehouseEndpoint, now time.Time) string {
	return WarehouseLink(baseURL, ep, url.Values{"Yearweek": {LastWeek(now).YearWeek()}})
}

// RouteStatsLink links to the raw route export for week w.
func RouteStatsLink(baseURL string, ep config.WarehouseEndpoint, w Week) string {
	return WarehouseLink(baseURL, ep, url.Values{
		"FromDate": {w.Monday.Format("2006-01-02")},
		"ToDate":   {w.Sunday.Format("2006-01-02")},
	})
}
