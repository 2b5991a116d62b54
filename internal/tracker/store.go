// Package tracker holds the in-memory collection of AI tools and their KPI
// records for one session. The store is the only owner of mutation logic;
// derived figures live in the metrics package.
package tracker

import (
	"strings"
	"sync"

	"codeberg.org/pmokit/aitrackd/internal/errors"
)

// Store is the authoritative, mutable tool collection for one session.
// Nothing is persisted: the store's lifetime is the process's lifetime.
type Store struct {
	mu    sync.Mutex
	tools []Tool
}

// NewStore creates an empty store. One store per session; there is no
// process-wide singleton.
func NewStore() *Store {
	return &Store{}
}

// AddTool inserts a new tool with an empty KPI collection and returns its
// identifier. Identifiers are allocated monotonically (1 + max existing)
// and never reused within a session.
func (s *Store) AddTool(params AddToolParams) (int64, error) {
	errFactory := errors.New()

	if strings.TrimSpace(params.Name) == "" {
		return 0, errFactory.New(ErrEmptyToolName)
	}
	if params.TotalInvestment < 0 {
		return 0, errFactory.WithData(ErrNegativeInvestment, params.TotalInvestment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for i := range s.tools {
		if s.tools[i].ID > maxID {
			maxID = s.tools[i].ID
		}
	}

	s.tools = append(s.tools, Tool{
		ID:                 maxID + 1,
		Name:               params.Name,
		Category:           params.Category,
		TotalInvestment:    params.TotalInvestment,
		ImplementationDate: params.ImplementationDate,
		TeamSize:           params.TeamSize,
		Description:        params.Description,
	})

	return maxID + 1, nil
}

// AddKPI appends a KPI record to the given tool. Append order is preserved
// and later used for display and for first-match scans.
func (s *Store) AddKPI(toolID int64, name string, current, target float64, unit string) error {
	errFactory := errors.New()

	if strings.TrimSpace(name) == "" {
		return errFactory.New(ErrEmptyKPIName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tool := s.find(toolID)
	if tool == nil {
		return errFactory.WithData(ErrToolNotFound, toolID)
	}

	tool.KPIs = append(tool.KPIs, KPI{
		Name:    name,
		Current: current,
		Target:  target,
		Unit:    unit,
	})

	return nil
}

// UpdateKPI overwrites the mutable fields of the KPI at index. The KPI
// keeps its name.
func (s *Store) UpdateKPI(toolID int64, index int, current, target float64, unit string) error {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	tool := s.find(toolID)
	if tool == nil {
		return errFactory.WithData(ErrToolNotFound, toolID)
	}
	if index < 0 || index >= len(tool.KPIs) {
		return errFactory.WithData(ErrKPINotFound, index)
	}

	tool.KPIs[index].Current = current
	tool.KPIs[index].Target = target
	tool.KPIs[index].Unit = unit

	return nil
}

// GetTool returns a copy of the tool with the given identifier.
func (s *Store) GetTool(toolID int64) (Tool, error) {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	tool := s.find(toolID)
	if tool == nil {
		return Tool{}, errFactory.WithData(ErrToolNotFound, toolID)
	}

	return copyTool(*tool), nil
}

// ListTools returns copies of all tools in insertion order.
func (s *Store) ListTools() []Tool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Tool, len(s.tools))
	for i := range s.tools {
		out[i] = copyTool(s.tools[i])
	}

	return out
}

// Count returns the number of tracked tools.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tools)
}

// TotalInvestment returns the sum of all tool investments.
func (s *Store) TotalInvestment() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for i := range s.tools {
		total += s.tools[i].TotalInvestment
	}

	return total
}

// find returns a pointer into the backing slice. Callers must hold s.mu.
func (s *Store) find(toolID int64) *Tool {
	for i := range s.tools {
		if s.tools[i].ID == toolID {
			return &s.tools[i]
		}
	}

	return nil
}

func copyTool(t Tool) Tool {
	kpis := make([]KPI, len(t.KPIs))
	copy(kpis, t.KPIs)
	t.KPIs = kpis

	return t
}
