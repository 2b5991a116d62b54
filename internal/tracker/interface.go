package tracker

import "time"

// Tool represents a tracked AI capability and the investment behind it.
// A Tool exclusively owns its KPI records.
type Tool struct {
	ID                 int64
	Name               string
	Category           string
	TotalInvestment    float64
	ImplementationDate time.Time
	TeamSize           int
	Description        string
	KPIs               []KPI
}

// KPI is a key performance indicator attached to a tool. Unit is a
// display-only label and never enters any computation.
type KPI struct {
	Name    string
	Current float64
	Target  float64
	Unit    string
}

// AddToolParams carries the fields for a new tool. KPIs are attached
// separately via AddKPI.
type AddToolParams struct {
	Name               string
	Category           string
	TotalInvestment    float64
	ImplementationDate time.Time
	TeamSize           int
	Description        string
}

// Canonical tool categories. The store accepts any non-empty category
// string; this list backs the presentation layer's category picker.
var categories = []string{
	"Productivity",
	"Risk Management",
	"Analytics",
	"Automation",
	"Quality Control",
	"Reporting",
	"Scheduling",
	"Budgeting",
	"Other",
}

// Categories returns the canonical category list.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}
