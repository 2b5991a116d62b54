// Package metrics derives read-only figures from a tracker snapshot. Every
// function here is pure: no store access, no clock access. Callers supply
// the reference time where one is needed.
package metrics

import (
	"math"
	"strings"
	"time"

	"codeberg.org/pmokit/aitrackd/internal/tracker"
)

const (
	maxPerformance = 100
	daysPerMonth   = 30

	// Substring that marks a KPI as a monthly savings figure.
	costKPIMarker = "cost"
)

// KPIPerformance returns how close a KPI sits to its target, clamped at
// 100 on the upside. A target of zero is a routine data state (a fresh KPI
// with no target set yet), not an error: performance is 0.
func KPIPerformance(k tracker.KPI) float64 {
	if k.Target <= 0 {
		return 0
	}

	return math.Min(maxPerformance, k.Current/k.Target*maxPerformance)
}

// ToolAveragePerformance is the arithmetic mean of KPIPerformance over the
// tool's KPIs, 0 for a tool without KPIs.
func ToolAveragePerformance(t tracker.Tool) float64 {
	if len(t.KPIs) == 0 {
		return 0
	}

	var total float64
	for _, k := range t.KPIs {
		total += KPIPerformance(k)
	}

	return total / float64(len(t.KPIs))
}

// MonthsInUse converts the span between implementation and the reference
// date into months, never less than 1 so brand-new tools do not blow up
// the ROI figure.
func MonthsInUse(implemented, ref time.Time) float64 {
	days := math.Floor(ref.Sub(implemented).Hours() / 24)

	return math.Max(1, days/daysPerMonth)
}

// SimpleROI computes (savings - cost) / cost as a percentage. A zero cost
// yields 0 rather than an error.
func SimpleROI(totalCost, monthlySavings, monthsInUse float64) float64 {
	if totalCost <= 0 {
		return 0
	}

	totalSavings := monthlySavings * monthsInUse

	return (totalSavings - totalCost) / totalCost * 100
}

// EstimatedROI estimates a tool's ROI from its first cost-related KPI, in
// append order. The KPI's current value is treated as a monthly savings
// figure. Without such a KPI the estimate is 0.
func EstimatedROI(t tracker.Tool, now time.Time) float64 {
	for _, k := range t.KPIs {
		if strings.Contains(strings.ToLower(k.Name), costKPIMarker) {
			return SimpleROI(t.TotalInvestment, k.Current, MonthsInUse(t.ImplementationDate, now))
		}
	}

	return 0
}

// Summarize aggregates the dashboard's at-a-glance figures. The average is
// the mean of per-tool average performance, 0 with no tools.
func Summarize(tools []tracker.Tool) Summary {
	s := Summary{ToolCount: len(tools)}

	var total float64
	for _, t := range tools {
		s.KPICount += len(t.KPIs)
		s.TotalInvestment += t.TotalInvestment
		total += ToolAveragePerformance(t)
	}

	if len(tools) > 0 {
		s.AveragePerformance = total / float64(len(tools))
	}

	return s
}
