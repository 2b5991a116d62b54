package metrics

// Severity tiers a recommendation by how far the KPI sits from its target.
type Severity string

const (
	// SeverityCritical fires below half the target: the tool likely needs
	// onboarding or configuration work.
	SeverityCritical Severity = "critical"
	// SeverityWarning fires between 50% and 80% of target.
	SeverityWarning Severity = "warning"
	// SeverityExceeding fires above 120% of target.
	SeverityExceeding Severity = "exceeding"
)

// Recommendation is one actionable finding for a (tool, KPI) pair.
type Recommendation struct {
	Tool       string   `json:"tool"`
	KPI        string   `json:"kpi"`
	Ratio      float64  `json:"ratio"`
	Severity   Severity `json:"severity"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion"`
}

// Summary aggregates the whole dashboard for the at-a-glance view.
type Summary struct {
	ToolCount          int     `json:"tool_count"`
	KPICount           int     `json:"kpi_count"`
	TotalInvestment    float64 `json:"total_investment"`
	AveragePerformance float64 `json:"average_performance"`
}
