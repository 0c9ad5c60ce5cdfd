package anomaly

import (
	"context"
	"time"
)

type AnomalyRepository interface {
	Create(ctx context.Context, a Anomaly) (Anomaly, error)

	// CreateIfAbsent inserts a unless an anomaly of the same type already exists
	// for the user on that date. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, a Anomaly) (bool, error)

	// CountInRange counts anomalies whose date lies in [from, to), any status.
	CountInRange(ctx context.Context, userID string, orgID string, from, to time.Time) (Counts, error)
}
