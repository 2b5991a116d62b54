package telemetry

import (
	"context"
	"time"
)

// Collector records dashboard snapshots. The session store itself is never
// persisted; snapshots are derived history only and are never read back
// into the store.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot captures the derived state of the dashboard after a mutation.
type Snapshot struct {
	Timestamp          time.Time
	ToolCount          int
	KPICount           int
	TotalInvestment    float64
	AveragePerformance float64
	Underperforming    int
	Exceeding          int
}
