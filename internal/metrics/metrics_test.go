package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"csdash/internal/models"
)

func TestRecorder_RecordRun(t *testing.T) {
	store := NewMemoryStore()
	reg := prometheus.NewRegistry()
	r := NewRecorder(store, reg)

	r.RecordRun(models.AnalysisRun{Report: "support-notes", RowsIn: 4, Matched: 2}, map[string]int{"road closed": 2})
	r.RecordRun(models.AnalysisRun{Report: "support-notes", Degraded: true}, nil)
	r.RecordRun(models.AnalysisRun{Report: "support-notes"}, map[string]int{"road closed": 1, "extra time": 1})
	r.Wait()

	if got := testutil.ToFloat64(r.runs.WithLabelValues("support-notes", models.OutcomeOK)); got != 2 {
		t.Errorf("ok runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.runs.WithLabelValues("support-notes", models.OutcomeDegraded)); got != 1 {
		t.Errorf("degraded runs = %v, want 1", got)
	}

	runs, err := r.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}

	expected := `
# HELP csdash_keyword_hits_total Total rows matched per keyword and report
# TYPE csdash_keyword_hits_total counter
csdash_keyword_hits_total{keyword="extra time",report="support-notes"} 1
csdash_keyword_hits_total{keyword="road closed",report="support-notes"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "csdash_keyword_hits_total"); err != nil {
		t.Errorf("keyword hit metrics mismatch: %v", err)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.RecordRun(models.AnalysisRun{Report: "x"}, nil)
	r.Wait()
	if runs, err := r.RecentRuns(context.Background(), 5); runs != nil || err != nil {
		t.Errorf("RecentRuns() on nil recorder = %v, %v", runs, err)
	}
}

func TestMemoryStore_BoundsRuns(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < maxMemoryRuns+5; i++ {
		s.RecordAnalysisRun(ctx, &models.AnalysisRun{Report: "solar", RowsIn: i})
	}
	runs, _ := s.ListRecentRuns(ctx, 1000)
	if len(runs) != maxMemoryRuns {
		t.Errorf("len(runs) = %d, want %d", len(runs), maxMemoryRuns)
	}
	if runs[0].RowsIn != maxMemoryRuns+4 {
		t.Errorf("newest run RowsIn = %d", runs[0].RowsIn)
	}
}
