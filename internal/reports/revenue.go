package reports

import (
	"sort"
	"strconv"

	"csdash/internal/config"
	"csdash/internal/sheet"
)

// Columns added by the onboarding step.
const (
	ColEstPotential   = "EstPotential"
	ColOnboardSuccess = "OnboardSuccess"
)

// NewCustomersResult is the first step of the onboarding tracker.
type NewCustomersResult struct {
	Messages    Messages
	YearColumns []string // prior-year columns present in the upload
	TargetYear  string
	// Customers are the rows with revenue only in the target year.
	Customers *sheet.Table
	Preview   *sheet.Table
}

// FindNewCustomers returns customers whose revenue is zero in every prior year
// column present and positive in the target year column.
func FindNewCustomers(t *sheet.Table, cfg config.RevenueConfig) (*NewCustomersResult, error) {
	target := strconv.Itoa(cfg.TargetYear)
	if err := requireColumns(t, target); err != nil {
		return nil, err
	}

	res := &NewCustomersResult{TargetYear: target}
	for y := cfg.FirstYear; y < cfg.TargetYear; y++ {
		if col := strconv.Itoa(y); t.Has(col) {
			res.YearColumns = append(res.YearColumns, col)
		}
	}

	res.Customers = t.Filter(func(r sheet.Row) bool {
		for _, col := range res.YearColumns {
			n := sheet.ParseNumber(t.Get(r, col))
			if n == nil || *n != 0 {
				return false
			}
		}
		return targetRevenue(t, r, target) > 0
	})

	res.Preview = res.Customers.Select(append(append([]string(nil), cfg.PreviewColumns...), target)...)
	if res.Customers.Len() == 0 {
		res.Messages.add(LevelInfo, "Ingen nye kunder efter kriteriet.")
	}
	return res, nil
}

// targetRevenue reads the target-year revenue, treating blanks as zero.
func targetRevenue(t *sheet.Table, r sheet.Row, target string) float64 {
	if n := sheet.ParseNumber(t.Get(r, target)); n != nil {
		return *n
	}
	return 0
}

// Label names a customer row for the estimate form.
func (r *NewCustomersResult) Label(row sheet.Row) string {
	return r.Customers.Text(row, "Company Name") + " (" + r.Customers.Text(row, "ID") + ")"
}

// Slice is one product share of the onboarding chart.
type Slice struct {
	Label   string
	Count   int
	Percent float64
}

// OnboardingResult is the second step of the onboarding tracker.
type OnboardingResult struct {
	Total    int
	Success  int
	Fail     int
	Products []Slice // empty when the upload has no Product column
	Table    *sheet.Table
	Summary  Summary
}

// AnalyzeOnboarding flags new customers whose target-year revenue reached the
// success ratio of their estimated annual potential. estimates is indexed by
// row position in nc.Customers; missing entries count as zero.
func AnalyzeOnboarding(nc *NewCustomersResult, estimates map[int]float64, cfg config.RevenueConfig) *OnboardingResult {
	df := nc.Customers.Clone()

	i := 0
	df.AddColumn(ColEstPotential, func(sheet.Row) sheet.Cell {
		est := estimates[i]
		i++
		return sheet.Str(sheet.FormatNumber(est))
	})

	res := &OnboardingResult{Total: df.Len()}
	df.AddColumn(ColOnboardSuccess, func(r sheet.Row) sheet.Cell {
		est := sheet.ParseNumber(df.Get(r, ColEstPotential))
		rev := sheet.ParseNumber(df.Get(r, nc.TargetYear))
		ok := est != nil && rev != nil && *rev >= cfg.SuccessRatio*(*est)
		if ok {
			res.Success++
		}
		return sheet.Str(strconv.FormatBool(ok))
	})
	res.Fail = res.Total - res.Success

	if df.Has("Product") {
		res.Products = distribution(df, "Product")
	}

	res.Table = df.Select(cfg.OutputColumns...)
	res.Summary = Summary{Report: Revenue, RowsIn: nc.Customers.Len(), RowsOut: df.Len(), Matched: res.Success}
	return res
}

// distribution counts the non-blank values of col, largest share first.
func distribution(t *sheet.Table, col string) []Slice {
	counts := make(map[string]int)
	total := 0
	for _, r := range t.Rows {
		if v := t.Get(r, col); v != nil {
			counts[*v]++
			total++
		}
	}

	slices := make([]Slice, 0, len(counts))
	for label, n := range counts {
		slices = append(slices, Slice{Label: label, Count: n, Percent: 100 * float64(n) / float64(total)})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

// Sheets returns the workbook offered for download.
func (r *OnboardingResult) Sheets() []sheet.Sheet {
	return []sheet.Sheet{{Name: "Onboarding", Table: r.Table}}
}
