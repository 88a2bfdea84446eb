package sheet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DisplayDate is the dd-mm-yyyy layout used on every exported date column.
const DisplayDate = "02-01-2006"

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// dayFirstLayouts are tried before dateparse, which reads ambiguous dates
// month first.
var dayFirstLayouts = []string{
	"02-01-2006",
	"02.01.2006",
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
	"02.01.2006 15:04",
}

// ParseNumber coerces a cell to a float. Blank or non-numeric cells yield nil.
func ParseNumber(c Cell) *float64 {
	if c == nil {
		return nil
	}
	s := strings.TrimSpace(*c)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FormatNumber renders f without a trailing ".0" for whole numbers.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseDate coerces a cell to a time. It accepts whatever dateparse
// recognizes plus Excel serial day numbers. Unparseable cells yield nil.
func ParseDate(c Cell) *time.Time {
	if c == nil {
		return nil
	}
	s := strings.TrimSpace(*c)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n <= 0 || n > 2958465 {
			return nil
		}
		days := math.Floor(n)
		frac := n - days
		t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
		return &t
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// FormatDateCell reformats a date cell as dd-mm-yyyy; cells that are not
// dates become blank.
func FormatDateCell(c Cell) Cell {
	t := ParseDate(c)
	if t == nil {
		return nil
	}
	return Str(t.Format(DisplayDate))
}
