package models

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// TimestampLayout is how note timestamps are written in exports.
const TimestampLayout = "2006-01-02 15:04"

// Timestamp is a time that serializes in TimestampLayout and accepts any
// reasonable date string when read back.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to the minute.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Minute)}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		t.Time = v
		return nil
	}
	v, err := dateparse.ParseLocal(s)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

// Note is a free-form overview note shared by the team.
type Note struct {
	ID        uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Body      string    `json:"body"`
	CreatedAt Timestamp `json:"created_at"`
}

// HelpArticle is a how-to entry shown next to the notes.
type HelpArticle struct {
	ID        uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Body      string    `json:"body"`
	CreatedAt Timestamp `json:"created_at"`
}
