package tracker

import "time"

// Seed loads the two sample tools so a fresh dashboard has something to
// explore. Errors are impossible here short of a programming mistake, so
// Seed panics instead of returning them.
func (s *Store) Seed() {
	assistant, err := s.AddTool(AddToolParams{
		Name:               "AI Task Assistant",
		Category:           "Productivity",
		TotalInvestment:    15000,
		ImplementationDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		TeamSize:           45,
		Description:        "Automates routine tasks and improves team productivity",
	})
	if err != nil {
		panic(err)
	}

	predictor, err := s.AddTool(AddToolParams{
		Name:               "Risk Predictor",
		Category:           "Risk Management",
		TotalInvestment:    25000,
		ImplementationDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		TeamSize:           22,
		Description:        "Predicts project risks and suggests mitigation strategies",
	})
	if err != nil {
		panic(err)
	}

	seedKPIs := []struct {
		toolID  int64
		name    string
		current float64
		target  float64
		unit    string
	}{
		{assistant, "Time Saved", 120, 150, "hours/month"},
		{assistant, "Task Completion Rate", 85, 90, "%"},
		{assistant, "User Satisfaction", 4.2, 4.5, "rating"},
		{predictor, "Risk Detection Accuracy", 88, 92, "%"},
		{predictor, "False Positives", 12, 10, "cases/month"},
		{predictor, "Cost Avoidance", 35000, 40000, "$/quarter"},
	}

	for _, k := range seedKPIs {
		if err := s.AddKPI(k.toolID, k.name, k.current, k.target, k.unit); err != nil {
			panic(err)
		}
	}
}
