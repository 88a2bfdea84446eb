package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ReportsConfig represents the structure of the reports.yaml file.
// Business rules change more often than code, so they live in YAML.
type ReportsConfig struct {
	SupportNotes SupportNotesConfig `yaml:"support_notes"`
	Deviations   DeviationsConfig   `yaml:"deviations"`
	QuickNotes   QuickNotesConfig   `yaml:"quicknotes"`
	Revenue      RevenueConfig      `yaml:"revenue"`
	Solar        SolarConfig        `yaml:"solar"`
}

// SupportNotesConfig drives the support-note keyword analysis.
type SupportNotesConfig struct {
	RequiredColumns []string `yaml:"required_columns"`
	ExcludeContains []string `yaml:"exclude_customers_containing"` // substring, case-insensitive
	YesLabel        string   `yaml:"yes_label"`
	NoLabel         string   `yaml:"no_label"`
	SheetName       string   `yaml:"sheet_name"`
}

// DeviationsConfig drives the deviations keyword analysis.
type DeviationsConfig struct {
	RequiredColumns []string `yaml:"required_columns"`
	SheetName       string   `yaml:"sheet_name"`
}

// QuickNotesConfig drives the controlling QuickNotes filter.
type QuickNotesConfig struct {
	ExcludeCustomers []string           `yaml:"exclude_customers"` // exact match after trim+lowercase
	Patterns         []string           `yaml:"patterns"`
	MinDuration      float64            `yaml:"min_duration"`
	CustomerMinimums map[string]float64 `yaml:"customer_minimums"` // customer name -> minutes
	OutputColumns    []string           `yaml:"output_columns"`
	Warehouse        WarehouseEndpoint  `yaml:"warehouse"`
}

// RevenueConfig drives the new-customer onboarding tracker.
type RevenueConfig struct {
	FirstYear      int      `yaml:"first_year"`
	TargetYear     int      `yaml:"target_year"`
	SuccessRatio   float64  `yaml:"success_ratio"`
	PreviewColumns []string `yaml:"preview_columns"`
	OutputColumns  []string `yaml:"output_columns"`
}

// SolarConfig drives the weekly solar route report.
type SolarConfig struct {
	StatusColumn string            `yaml:"status_column"`
	KeepStatus   string            `yaml:"keep_status"`
	DateColumns  []string          `yaml:"date_columns"` // column letters
	TimeColumns  []string          `yaml:"time_columns"` // column letters
	Warehouse    WarehouseEndpoint `yaml:"warehouse"`
}

// WarehouseEndpoint identifies one downloadable warehouse report.
type WarehouseEndpoint struct {
	Report string `yaml:"report"`
	APIKey string `yaml:"api_key"`
	UserID string `yaml:"user_id"`
}

// DefaultReportsConfig returns the rules the dashboards use when no YAML file
// is present.
func DefaultReportsConfig() *ReportsConfig {
	return &ReportsConfig{
		SupportNotes: SupportNotesConfig{
			RequiredColumns: []string{
				"SessionId", "Date", "CustomerId", "CustomerName",
				"EstDuration", "ActDuration", "DurationDifference", "SupportNote",
			},
			ExcludeContains: []string{"IKEA NL"},
			YesLabel:        "Ja",
			NoLabel:         "Nej",
			SheetName:       "Analyseret",
		},
		Deviations: DeviationsConfig{
			RequiredColumns: []string{
				"RouteId", "DriverId", "Date", "Slug", "ActualStartTime", "REVISEDActualStartTime",
				"ActualEndTime", "ActualDuration (min)", "REVISEDActualDuration (min)", "EstimatedStartTime",
				"EstimatedEndTime", "EstimateDuration (min)", "Deviation (min)", "Realtime-tag",
				"SupportNote", "Assessment", "ShortNote",
			},
			SheetName: "IKEA_NL_Deviations",
		},
		QuickNotes: QuickNotesConfig{
			ExcludeCustomers: []string{"IKEA Norway", "IKEA BE", "IKEA NL"},
			Patterns: []string{
				"Solutions - Delay - Extra time spent (S)",
				"Solutions - Customer deviation",
			},
			MinDuration:      180,
			CustomerMinimums: map[string]float64{"Brød Cooperativet": 150},
			OutputColumns:    []string{"SessionId", "Date", "CustomerId", "CustomerName", "ActDuration", "QuickNotes"},
			Warehouse:        WarehouseEndpoint{Report: "DurationControlling", APIKey: "2d633b", UserID: "74859"},
		},
		Revenue: RevenueConfig{
			FirstYear:      2016,
			TargetYear:     2025,
			SuccessRatio:   0.1,
			PreviewColumns: []string{"Company Name", "Name", "ID"},
			OutputColumns:  []string{"Company Name", "Name", "ID", "Category", "Sales", "SDM", "Product"},
		},
		Solar: SolarConfig{
			StatusColumn: "STATUS",
			KeepStatus:   "completed",
			DateColumns:  []string{"H"},
			TimeColumns:  []string{"E", "L", "M", "N", "O", "P"},
			Warehouse:    WarehouseEndpoint{Report: "routestats", APIKey: "b48c55", UserID: "6016"},
		},
	}
}

// LoadReportsConfig loads the reports YAML file over the defaults.
// Returns the defaults without error if the file doesn't exist.
func LoadReportsConfig(path string) (*ReportsConfig, error) {
	cfg := DefaultReportsConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MinDurationFor returns the minimum realized duration for a customer.
func (c *QuickNotesConfig) MinDurationFor(customer string) float64 {
	if m, ok := c.CustomerMinimums[customer]; ok {
		return m
	}
	return c.MinDuration
}
