package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_JSON(t *testing.T) {
	ts := Timestamp{time.Date(2025, 3, 4, 9, 5, 0, 0, time.Local)}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2025-03-04 09:05"` {
		t.Errorf("Marshal() = %s", b)
	}

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"export layout", `"2025-03-04 09:05"`, ts.Time},
		{"rfc3339", `"2025-03-04T09:05:00Z"`, time.Date(2025, 3, 4, 9, 5, 0, 0, time.UTC)},
		{"empty", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Timestamp
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Unmarshal() = %v, want %v", got.Time, tt.want)
			}
		})
	}

	var bad Timestamp
	if err := json.Unmarshal([]byte(`"not a date"`), &bad); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}
