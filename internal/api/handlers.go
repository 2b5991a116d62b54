package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codeberg.org/pmokit/aitrackd/internal/errors"
	"codeberg.org/pmokit/aitrackd/internal/metrics"
	"codeberg.org/pmokit/aitrackd/internal/telemetry"
	"codeberg.org/pmokit/aitrackd/internal/tracker"
)

const dateFormat = "2006-01-02"

type kpiPayload struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
}

type kpiView struct {
	Name        string  `json:"name"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Unit        string  `json:"unit"`
	Performance float64 `json:"performance"`
}

type toolView struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	TotalInvestment    float64   `json:"total_investment"`
	ImplementationDate string    `json:"implementation_date"`
	TeamSize           int       `json:"team_size"`
	Description        string    `json:"description"`
	KPIs               []kpiView `json:"kpis"`
	Performance        float64   `json:"performance"`
	EstimatedROI       float64   `json:"estimated_roi"`
	MonthsInUse        float64   `json:"months_in_use"`
}

type addToolRequest struct {
	Name               string       `json:"name"`
	Category           string       `json:"category"`
	TotalInvestment    float64      `json:"total_investment"`
	ImplementationDate string       `json:"implementation_date"`
	TeamSize           int          `json:"team_size"`
	Description        string       `json:"description"`
	KPIs               []kpiPayload `json:"kpis"`
}

type updateKPIRequest struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
}

type roiRequest struct {
	ToolID         int64    `json:"tool_id"`
	TotalCost      *float64 `json:"total_cost"`
	MonthlySavings float64  `json:"monthly_savings"`
	MonthsInUse    *float64 `json:"months_in_use"`
}

type roiResponse struct {
	TotalCost      float64 `json:"total_cost"`
	MonthlySavings float64 `json:"monthly_savings"`
	MonthsInUse    float64 `json:"months_in_use"`
	TotalSavings   float64 `json:"total_savings"`
	ROI            float64 `json:"roi"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.respond(w, http.StatusOK, s.toolViews())
	case http.MethodPost:
		s.addTool(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

// handleTool routes /api/tools/{id}, /api/tools/{id}/kpis and
// /api/tools/{id}/kpis/{index}.
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tools/"), "/"), "/")

	toolID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.respondError(w, http.StatusNotFound, tracker.ErrToolNotFound, "no such tool")
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w)
			return
		}
		s.getTool(w, toolID)
	case len(parts) == 2 && parts[1] == "kpis":
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w)
			return
		}
		s.addKPI(w, r, toolID)
	case len(parts) == 3 && parts[1] == "kpis":
		if r.Method != http.MethodPut {
			s.methodNotAllowed(w)
			return
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			s.respondError(w, http.StatusNotFound, tracker.ErrKPINotFound, "no such KPI")
			return
		}
		s.updateKPI(w, r, toolID, index)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) addTool(w http.ResponseWriter, r *http.Request) {
	var req addToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "malformed JSON payload")
		return
	}

	implemented, err := parseDate(req.ImplementationDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "implementation_date must be YYYY-MM-DD")
		return
	}

	id, err := s.store.AddTool(tracker.AddToolParams{
		Name:               req.Name,
		Category:           req.Category,
		TotalInvestment:    req.TotalInvestment,
		ImplementationDate: implemented,
		TeamSize:           req.TeamSize,
		Description:        req.Description,
	})
	if err != nil {
		s.storeError(w, err)
		return
	}

	for _, k := range req.KPIs {
		// The entry form leaves unused KPI slots blank; skip them
		if strings.TrimSpace(k.Name) == "" {
			continue
		}
		if err := s.store.AddKPI(id, k.Name, k.Current, k.Target, k.Unit); err != nil {
			s.storeError(w, err)
			return
		}
	}

	s.recordSnapshot(r)

	tool, err := s.store.GetTool(id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, s.toolView(tool))
}

func (s *Server) getTool(w http.ResponseWriter, toolID int64) {
	tool, err := s.store.GetTool(toolID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.respond(w, http.StatusOK, s.toolView(tool))
}

func (s *Server) addKPI(w http.ResponseWriter, r *http.Request, toolID int64) {
	var req kpiPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "malformed JSON payload")
		return
	}

	if err := s.store.AddKPI(toolID, req.Name, req.Current, req.Target, req.Unit); err != nil {
		s.storeError(w, err)
		return
	}

	s.recordSnapshot(r)

	tool, err := s.store.GetTool(toolID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, s.toolView(tool))
}

func (s *Server) updateKPI(w http.ResponseWriter, r *http.Request, toolID int64, index int) {
	var req updateKPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "malformed JSON payload")
		return
	}

	if err := s.store.UpdateKPI(toolID, index, req.Current, req.Target, req.Unit); err != nil {
		s.storeError(w, err)
		return
	}

	s.recordSnapshot(r)

	tool, err := s.store.GetTool(toolID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.respond(w, http.StatusOK, s.toolView(tool))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	s.respond(w, http.StatusOK, metrics.Summarize(s.store.ListTools()))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	recs := metrics.Recommendations(s.store.ListTools())

	// Truncation is a display choice, not an engine one
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "limit must be a non-negative integer")
			return
		}
		if limit < len(recs) {
			recs = recs[:limit]
		}
	}

	if recs == nil {
		recs = []metrics.Recommendation{}
	}

	s.respond(w, http.StatusOK, recs)
}

func (s *Server) handleBestPractices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	s.respond(w, http.StatusOK, metrics.BestPractices())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	s.respond(w, http.StatusOK, tracker.Categories())
}

func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var req roiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument, "malformed JSON payload")
		return
	}

	resp := roiResponse{MonthlySavings: req.MonthlySavings}

	switch {
	case req.ToolID != 0:
		tool, err := s.store.GetTool(req.ToolID)
		if err != nil {
			s.storeError(w, err)
			return
		}
		resp.TotalCost = tool.TotalInvestment
		if req.TotalCost != nil {
			resp.TotalCost = *req.TotalCost
		}
		resp.MonthsInUse = metrics.MonthsInUse(tool.ImplementationDate, s.now())
	case req.TotalCost != nil && req.MonthsInUse != nil:
		resp.TotalCost = *req.TotalCost
		resp.MonthsInUse = *req.MonthsInUse
	default:
		s.respondError(w, http.StatusBadRequest, errors.ErrInvalidArgument,
			"provide either tool_id or total_cost and months_in_use")
		return
	}

	resp.TotalSavings = resp.MonthlySavings * resp.MonthsInUse
	resp.ROI = metrics.SimpleROI(resp.TotalCost, resp.MonthlySavings, resp.MonthsInUse)

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) toolViews() []toolView {
	tools := s.store.ListTools()
	views := make([]toolView, len(tools))
	for i, t := range tools {
		views[i] = s.toolView(t)
	}

	return views
}

func (s *Server) toolView(t tracker.Tool) toolView {
	now := s.now()

	kpis := make([]kpiView, len(t.KPIs))
	for i, k := range t.KPIs {
		kpis[i] = kpiView{
			Name:        k.Name,
			Current:     k.Current,
			Target:      k.Target,
			Unit:        k.Unit,
			Performance: metrics.KPIPerformance(k),
		}
	}

	return toolView{
		ID:                 t.ID,
		Name:               t.Name,
		Category:           t.Category,
		TotalInvestment:    t.TotalInvestment,
		ImplementationDate: t.ImplementationDate.Format(dateFormat),
		TeamSize:           t.TeamSize,
		Description:        t.Description,
		KPIs:               kpis,
		Performance:        metrics.ToolAveragePerformance(t),
		EstimatedROI:       metrics.EstimatedROI(t, now),
		MonthsInUse:        metrics.MonthsInUse(t.ImplementationDate, now),
	}
}

// recordSnapshot captures the derived dashboard state after a successful
// mutation. Telemetry is best effort: failures are logged, never surfaced.
func (s *Server) recordSnapshot(r *http.Request) {
	tools := s.store.ListTools()
	summary := metrics.Summarize(tools)

	var under, over int
	for _, rec := range metrics.Recommendations(tools) {
		if rec.Severity == metrics.SeverityExceeding {
			over++
		} else {
			under++
		}
	}

	snapshot := &telemetry.Snapshot{
		Timestamp:          s.now(),
		ToolCount:          summary.ToolCount,
		KPICount:           summary.KPICount,
		TotalInvestment:    summary.TotalInvestment,
		AveragePerformance: summary.AveragePerformance,
		Underperforming:    under,
		Exceeding:          over,
	}

	if err := s.collector.Record(r.Context(), snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record telemetry snapshot")
	}
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case tracker.IsValidation(err):
		s.respondError(w, http.StatusBadRequest, errors.CodeOf(err), err.Error())
	case tracker.IsNotFound(err):
		s.respondError(w, http.StatusNotFound, errors.CodeOf(err), err.Error())
	default:
		s.logger.Error().Err(err).Msg("Unexpected store error")
		s.respondError(w, http.StatusInternalServerError, errors.ErrInternal, "internal error")
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.respondError(w, http.StatusMethodNotAllowed, errors.ErrInvalidOperation, "method not allowed")
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	s.respond(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": message,
		},
	})
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	return time.Parse(dateFormat, raw)
}
