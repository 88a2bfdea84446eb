package reports

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"csdash/internal/config"
)

func TestAnalyzeSolarWeekly(t *testing.T) {
	cfg := config.DefaultReportsConfig().Solar
	in := build([]string{"Route", "Stops", "Km", "Minutes", "STATUS"},
		[]string{"r1", "10", "55.5", "300", "Completed"},
		[]string{"r2", "x", "12", "120", " completed "},
		[]string{"r3", "4", "8", "", "completed"},
		[]string{"r4", "9", "40", "200", "Cancelled"},
		[]string{"r5", "7", "30", "abc", "COMPLETED"},
		[]string{"r6", "3", "20", "120", "completed"},
	)

	res, err := AnalyzeSolarWeekly(in, cfg)
	if err != nil {
		t.Fatalf("AnalyzeSolarWeekly() error = %v", err)
	}

	if got := column(res.Table, "Route"); !cmp.Equal(got, []string{"r2", "r6", "r1"}) {
		t.Errorf("routes = %v, want [r2 r6 r1]", got)
	}
	if got := column(res.Table, "Stops"); !cmp.Equal(got, []string{"", "3", "10"}) {
		t.Errorf("stops = %v", got)
	}

	sheets := res.Sheets()
	if sheets[0].Name != "Filtered" {
		t.Errorf("sheet name = %q", sheets[0].Name)
	}
	wantFormats := map[string]string{
		"H": "dd-mm-yyyy",
		"E": "hh:mm:ss", "L": "hh:mm:ss", "M": "hh:mm:ss",
		"N": "hh:mm:ss", "O": "hh:mm:ss", "P": "hh:mm:ss",
	}
	if diff := cmp.Diff(wantFormats, sheets[0].Formats); diff != "" {
		t.Errorf("formats mismatch:\n%s", diff)
	}
}

func TestAnalyzeSolarWeekly_Errors(t *testing.T) {
	cfg := config.DefaultReportsConfig().Solar

	if _, err := AnalyzeSolarWeekly(build([]string{"A", "B", "C", "D"}), cfg); !errors.Is(err, ErrMissingColumns) {
		t.Errorf("missing STATUS: error = %v", err)
	}
	if _, err := AnalyzeSolarWeekly(build([]string{"STATUS", "B"}), cfg); err == nil {
		t.Error("expected error for too few columns")
	}
}

func TestLastWeek(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantMonday string
		wantSunday string
		wantLabel  string
		wantYW     string
	}{
		{
			name:       "midweek",
			now:        time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC), // Wednesday
			wantMonday: "2025-02-24",
			wantSunday: "2025-03-02",
			wantLabel:  "Uge 09",
			wantYW:     "202509",
		},
		{
			name:       "monday",
			now:        time.Date(2025, 3, 3, 0, 30, 0, 0, time.UTC),
			wantMonday: "2025-02-24",
			wantSunday: "2025-03-02",
			wantLabel:  "Uge 09",
			wantYW:     "202509",
		},
		{
			name:       "sunday",
			now:        time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC),
			wantMonday: "2025-02-24",
			wantSunday: "2025-03-02",
			wantLabel:  "Uge 09",
			wantYW:     "202509",
		},
		{
			name:       "iso year boundary",
			now:        time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
			wantMonday: "2024-12-30",
			wantSunday: "2025-01-05",
			wantLabel:  "Uge 01",
			wantYW:     "202501",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := LastWeek(tt.now)
			if got := w.Monday.Format("2006-01-02"); got != tt.wantMonday {
				t.Errorf("Monday = %s, want %s", got, tt.wantMonday)
			}
			if got := w.Sunday.Format("2006-01-02"); got != tt.wantSunday {
				t.Errorf("Sunday = %s, want %s", got, tt.wantSunday)
			}
			if got := w.Label(); got != tt.wantLabel {
				t.Errorf("Label() = %s, want %s", got, tt.wantLabel)
			}
			if got := w.YearWeek(); got != tt.wantYW {
				t.Errorf("YearWeek() = %s, want %s", got, tt.wantYW)
			}
		})
	}
}

func TestWarehouseLinks(t *testing.T) {
	cfg := config.DefaultReportsConfig()
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	link := ControllingLink("https://warehouse.example.com/", cfg.QuickNotes.Warehouse, now)
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid link %q: %v", link, err)
	}
	if u.Path != "/download/DurationControlling" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("apikey") != "2d633b" || q.Get("Userid") != "74859" || q.Get("Yearweek") != "202509" {
		t.Errorf("query = %v", q)
	}

	link = RouteStatsLink("https://warehouse.example.com", cfg.Solar.Warehouse, LastWeek(now))
	if !strings.Contains(link, "/download/routestats?") {
		t.Errorf("link = %q", link)
	}
	u, _ = url.Parse(link)
	if u.Query().Get("FromDate") != "2025-02-24" || u.Query().Get("ToDate") != "2025-03-02" {
		t.Errorf("query = %v", u.Query())
	}
}
