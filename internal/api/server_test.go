package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"codeberg.org/pmokit/aitrackd/internal/api"
	"codeberg.org/pmokit/aitrackd/internal/logger"
	"codeberg.org/pmokit/aitrackd/internal/telemetry"
	"codeberg.org/pmokit/aitrackd/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := logger.Init("error", true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type toolView struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	TotalInvestment    float64 `json:"total_investment"`
	ImplementationDate string  `json:"implementation_date"`
	Performance        float64 `json:"performance"`
	EstimatedROI       float64 `json:"estimated_roi"`
	MonthsInUse        float64 `json:"months_in_use"`
	KPIs               []struct {
		Name        string  `json:"name"`
		Current     float64 `json:"current"`
		Target      float64 `json:"target"`
		Unit        string  `json:"unit"`
		Performance float64 `json:"performance"`
	} `json:"kpis"`
}

func newTestServer(t *testing.T) (*api.Server, *tracker.Store) {
	t.Helper()

	store := tracker.NewStore()
	collector, err := telemetry.NewService(telemetry.Config{Enabled: false}, logger.Default())
	require.NoError(t, err)

	srv := api.NewServer(store, collector, logger.Default(), api.WithClock(func() time.Time { return testNow }))

	return srv, store
}

func doJSON(t *testing.T, srv *api.Server, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}

	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddToolAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	var created toolView
	rec := doJSON(t, srv, http.MethodPost, "/api/tools", map[string]any{
		"name":                "Report Writer",
		"category":            "Reporting",
		"total_investment":    20000,
		"implementation_date": "2024-04-02", // 60 days before testNow
		"team_size":           12,
		"kpis": []map[string]any{
			{"name": "Cost Savings", "current": 10000, "target": 12000, "unit": "$/month"},
			{"name": "", "current": 0, "target": 0, "unit": ""}, // blank form slot
		},
	}, &created)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, created.KPIs, 1, "blank KPI slots are skipped")
	assert.Equal(t, "Cost Savings", created.KPIs[0].Name)
	assert.InDelta(t, 2.0, created.MonthsInUse, 1e-9)
	// 10000 * 2 months against 20000 invested
	assert.InDelta(t, 0.0, created.EstimatedROI, 1e-9)

	var fetched toolView
	rec = doJSON(t, srv, http.MethodGet, "/api/tools/1", nil, &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestAddToolValidation(t *testing.T) {
	srv, store := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/tools", map[string]any{"name": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/tools", map[string]any{
		"name":             "Budget Bot",
		"total_investment": -5,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/tools", map[string]any{
		"name":                "Budget Bot",
		"implementation_date": "04/02/2024",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "non ISO dates are rejected")

	assert.Equal(t, 0, store.Count(), "rejected tools must not land in the store")
}

func TestToolNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/tools/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/tools/abc", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAndUpdateKPI(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed()

	var updated toolView
	rec := doJSON(t, srv, http.MethodPost, "/api/tools/1/kpis", map[string]any{
		"name": "Error Rate", "current": 4, "target": 2, "unit": "%",
	}, &updated)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, updated.KPIs, 4)
	assert.Equal(t, "Error Rate", updated.KPIs[3].Name, "new KPI must be appended last")

	rec = doJSON(t, srv, http.MethodPut, "/api/tools/1/kpis/0", map[string]any{
		"current": 150, "target": 150, "unit": "hours/month",
	}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Time Saved", updated.KPIs[0].Name, "update must not rename")
	assert.InDelta(t, 150, updated.KPIs[0].Current, 1e-9)
	assert.InDelta(t, 100, updated.KPIs[0].Performance, 1e-9)

	rec = doJSON(t, srv, http.MethodPut, "/api/tools/1/kpis/99", map[string]any{}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummary(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed()

	var summary struct {
		ToolCount          int     `json:"tool_count"`
		KPICount           int     `json:"kpi_count"`
		TotalInvestment    float64 `json:"total_investment"`
		AveragePerformance float64 `json:"average_performance"`
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/summary", nil, &summary)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, summary.ToolCount)
	assert.Equal(t, 6, summary.KPICount)
	assert.InDelta(t, 40000, summary.TotalInvestment, 1e-9)
	assert.Greater(t, summary.AveragePerformance, 0.0)
}

func TestRecommendationsLimit(t *testing.T) {
	srv, store := newTestServer(t)
	id, err := store.AddTool(tracker.AddToolParams{Name: "Report Writer", ImplementationDate: testNow})
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.AddKPI(id, name, 10, 100, "%"))
	}

	var recs []struct {
		KPI      string  `json:"kpi"`
		Ratio    float64 `json:"ratio"`
		Severity string  `json:"severity"`
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/recommendations", nil, &recs)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, recs, 4, "the engine returns the full list")

	recs = nil
	rec = doJSON(t, srv, http.MethodGet, "/api/recommendations?limit=3", nil, &recs)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, recs, 3, "truncation happens at the display layer")

	rec = doJSON(t, srv, http.MethodGet, "/api/recommendations?limit=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsEmptyIsList(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/recommendations", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "no recommendations must encode as an empty array")
}

func TestBestPracticesAndCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	var tips []string
	rec := doJSON(t, srv, http.MethodGet, "/api/best-practices", nil, &tips)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, tips)

	var cats []string
	rec = doJSON(t, srv, http.MethodGet, "/api/categories", nil, &cats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, cats, "Productivity")
	assert.Contains(t, cats, "Other")
}

func TestROICalculator(t *testing.T) {
	srv, store := newTestServer(t)

	totalCost := 50000.0
	months := 6.0
	var resp struct {
		TotalSavings float64 `json:"total_savings"`
		ROI          float64 `json:"roi"`
		MonthsInUse  float64 `json:"months_in_use"`
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/roi", map[string]any{
		"total_cost": totalCost, "monthly_savings": 10000, "months_in_use": months,
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 60000, resp.TotalSavings, 1e-9)
	assert.InDelta(t, 20, resp.ROI, 1e-9)

	// Zero cost is a defined-zero result, not an error
	zero := 0.0
	three := 3.0
	rec = doJSON(t, srv, http.MethodPost, "/api/roi", map[string]any{
		"total_cost": zero, "monthly_savings": 5000, "months_in_use": three,
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, resp.ROI)

	// Tool-based: months derived from the implementation date
	id, err := store.AddTool(tracker.AddToolParams{
		Name:               "Report Writer",
		TotalInvestment:    20000,
		ImplementationDate: testNow.AddDate(0, 0, -60),
	})
	require.NoError(t, err)

	rec = doJSON(t, srv, http.MethodPost, "/api/roi", map[string]any{
		"tool_id": id, "monthly_savings": 10000,
	}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2.0, resp.MonthsInUse, 1e-9)
	assert.InDelta(t, 0.0, resp.ROI, 1e-9)

	rec = doJSON(t, srv, http.MethodPost, "/api/roi", map[string]any{"monthly_savings": 10}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTelemetrySnapshotRecordedOnMutation(t *testing.T) {
	dbPath := t.TempDir() + "/telemetry.db"
	store := tracker.NewStore()
	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)
	defer collector.Close()

	srv := api.NewServer(store, collector, logger.Default(), api.WithClock(func() time.Time { return testNow }))

	rec := doJSON(t, srv, http.MethodPost, "/api/tools", map[string]any{
		"name":                "Report Writer",
		"total_investment":    1000,
		"implementation_date": "2024-05-01",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}
