package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis run outcomes
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// AnalysisRun records one execution of a report.
type AnalysisRun struct {
	ID        uuid.UUID
	Report    string
	User      string
	RowsIn    int
	RowsOut   int
	Matched   int
	Degraded  bool
	Outcome   string
	CreatedAt time.Time
}

// KeywordHit is the accumulated number of rows a keyword matched in a report.
type KeywordHit struct {
	Report     string
	Keyword    string
	Count      int64
	LastSeenAt time.Time
}
