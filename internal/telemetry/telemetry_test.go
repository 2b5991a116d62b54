package telemetry_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/pmokit/aitrackd/internal/logger"
	"codeberg.org/pmokit/aitrackd/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNoopCollectorWhenDisabled(t *testing.T) {
	collector, err := telemetry.NewService(telemetry.Config{Enabled: false}, logger.Default())
	require.NoError(t, err)

	require.NoError(t, collector.Record(context.Background(), &telemetry.Snapshot{}))
	require.NoError(t, collector.Close())
}

func TestInvalidConfig(t *testing.T) {
	_, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: ""}, logger.Default())
	require.Error(t, err)
}

func TestRecordSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)

	snapshot := &telemetry.Snapshot{
		Timestamp:          time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		ToolCount:          2,
		KPICount:           6,
		TotalInvestment:    40000,
		AveragePerformance: 81.5,
		Underperforming:    1,
		Exceeding:          0,
	}
	require.NoError(t, collector.Record(context.Background(), snapshot))
	require.NoError(t, collector.Close())

	// Verify the row landed
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count, toolCount int
	var avg float64
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	require.NoError(t, db.QueryRow("SELECT tool_count, average_performance FROM snapshots").Scan(&toolCount, &avg))
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, toolCount)
	assert.InDelta(t, 81.5, avg, 1e-9)
}

func TestRecordNilSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)
	defer collector.Close()

	require.Error(t, collector.Record(context.Background(), nil))
}

func TestRecordCancelledContext(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)
	defer collector.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, collector.Record(ctx, &telemetry.Snapshot{Timestamp: time.Now()}))
}

func TestSchemaReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)
	require.NoError(t, collector.Record(context.Background(), &telemetry.Snapshot{Timestamp: time.Unix(100, 0)}))
	require.NoError(t, collector.Close())

	// A second open against the same file must accept the existing schema
	collector, err = telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath}, logger.Default())
	require.NoError(t, err)
	require.NoError(t, collector.Record(context.Background(), &telemetry.Snapshot{Timestamp: time.Unix(200, 0)}))
	require.NoError(t, collector.Close())
}
