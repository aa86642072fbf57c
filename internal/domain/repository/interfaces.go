package repository

import (
	"context"

	"VolSentry/internal/domain/models"
)

// Publisher hands finished decision reports to the persistence/alerting
// collaborators. Implementations must be safe to call once per poll tick.
type Publisher interface {
	Publish(ctx context.Context, report *models.DecisionReport) error
	Close() error
}

// Metrics records engine observability counters.
type Metrics interface {
	RecordEvaluation(symbol string, seconds float64)
	RecordSignalLevel(key, level string)
	RecordComposite(name string)
	RecordRiskBudget(symbol string, budget float64)
	RecordError(kind string)
}
