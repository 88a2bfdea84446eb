package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"csdash/internal/db"
	"csdash/internal/models"
)

var (
	keywordHitDesc = prometheus.NewDesc(
		"csdash_keyword_hits_total",
		"Total rows matched per keyword and report",
		[]string{"report", "keyword"},
		nil,
	)
)

// Store persists the analysis run log and accumulated keyword hits.
type Store interface {
	RecordAnalysisRun(ctx context.Context, run *models.AnalysisRun) error
	ListRecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error)
	IncrementKeywordHits(ctx context.Context, report string, hits map[string]int) error
	GetAllKeywordHits(ctx context.Context) ([]models.KeywordHit, error)
}

var _ Store = (*db.DB)(nil)

// KeywordHitCollector is a custom Prometheus collector that reads keyword
// hit counts from the store on each scrape.
type KeywordHitCollector struct {
	store Store
}

// Describe sends the metric descriptor to the channel.
func (c *KeywordHitCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordHitDesc
}

// Collect queries the store for all keyword hits and emits them as counters.
func (c *KeywordHitCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hits, err := c.store.GetAllKeywordHits(ctx)
	if err != nil {
		slog.Error("failed to collect keyword hit metrics", "error", err)
		return
	}
	for _, h := range hits {
		ch <- prometheus.MustNewConstMetric(
			keywordHitDesc,
			prometheus.CounterValue,
			float64(h.Count),
			h.Report,
			h.Keyword,
		)
	}
}

// Recorder logs report runs asynchronously and counts them.
type Recorder struct {
	store Store
	runs  *prometheus.CounterVec
	wg    sync.WaitGroup
}

// NewRecorder registers the collectors on reg and returns a recorder
// writing to store.
func NewRecorder(store Store, reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		store: store,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csdash_analysis_runs_total",
			Help: "Total report runs by outcome",
		}, []string{"report", "outcome"}),
	}
	reg.MustRegister(r.runs, &KeywordHitCollector{store: store})
	return r
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors on the default registry and returns the
// process-wide recorder. Later calls return the same recorder.
func Init(store Store) *Recorder {
	recorderOnce.Do(func() {
		recorder = NewRecorder(store, prometheus.DefaultRegisterer)
	})
	return recorder
}

// RecordRun counts run and stores it together with its keyword hits in
// the background. A nil recorder does nothing.
func (r *Recorder) RecordRun(run models.AnalysisRun, hits map[string]int) {
	if r == nil {
		return
	}
	if run.Outcome == "" {
		run.Outcome = models.OutcomeOK
		if run.Degraded {
			run.Outcome = models.OutcomeDegraded
		}
	}
	r.runs.WithLabelValues(run.Report, run.Outcome).Inc()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := r.store.RecordAnalysisRun(ctx, &run); err != nil {
			slog.Error("failed to record analysis run", "report", run.Report, "error", err)
		}
		if len(hits) == 0 {
			return
		}
		if err := r.store.IncrementKeywordHits(ctx, run.Report, hits); err != nil {
			slog.Error("failed to record keyword hits", "report", run.Report, "error", err)
		}
	}()
}

// RecentRuns returns the latest runs from the store.
func (r *Recorder) RecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	if r == nil {
		return nil, nil
	}
	return r.store.ListRecentRuns(ctx, limit)
}

// Wait blocks until every pending write has finished.
func (r *Recorder) Wait() {
	if r != nil {
		r.wg.Wait()
	}
}
