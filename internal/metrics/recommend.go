package metrics

import (
	"fmt"

	"codeberg.org/pmokit/aitrackd/internal/tracker"
)

const (
	underperformThreshold = 80
	criticalThreshold     = 50
	exceedThreshold       = 120
)

// Recommendations walks every (tool, KPI) pair in (insertion, append)
// order and emits a finding for each KPI that sits below 80% or above 120%
// of its target. The ratio here is deliberately unclamped, unlike
// KPIPerformance; callers that only want the top few truncate the list
// themselves.
func Recommendations(tools []tracker.Tool) []Recommendation {
	var recs []Recommendation

	for _, t := range tools {
		for _, k := range t.KPIs {
			ratio := float64(0)
			if k.Target != 0 {
				ratio = k.Current / k.Target * 100
			}

			switch {
			case ratio < underperformThreshold:
				rec := Recommendation{
					Tool:     t.Name,
					KPI:      k.Name,
					Ratio:    ratio,
					Severity: SeverityWarning,
					Issue:    fmt.Sprintf("Underperforming by %.0f%%", 100-ratio),
				}
				if ratio < criticalThreshold {
					rec.Severity = SeverityCritical
					rec.Suggestion = "Consider training or onboarding support and review the tool configuration"
				} else {
					rec.Suggestion = "Optimize current usage patterns and gather user feedback for improvements"
				}
				recs = append(recs, rec)
			case ratio > exceedThreshold:
				recs = append(recs, Recommendation{
					Tool:       t.Name,
					KPI:        k.Name,
					Ratio:      ratio,
					Severity:   SeverityExceeding,
					Issue:      fmt.Sprintf("Exceeding target by %.0f%%", ratio-100),
					Suggestion: "Could expand usage to other teams/projects",
				})
			}
		}
	}

	return recs
}

// bestPractices is the static improvement tip list shown alongside
// recommendations.
var bestPractices = []string{
	"Update KPI values monthly to track progress",
	"Review and adjust targets quarterly based on performance",
	"Ensure adequate training for maximum tool adoption",
	"Calculate ROI quarterly to justify continued investment",
	"Gather user feedback for continuous improvement",
	"Ensure tools integrate well with existing workflows",
}

// BestPractices returns the static improvement tips.
func BestPractices() []string {
	out := make([]string, len(bestPractices))
	copy(out, bestPractices)
	return out
}
