package ports

import (
	"context"
	"time"

	"auditdesk/internal/domain"
)

// FillQuery narrows a FillStore read. Zero values mean "no constraint".
type FillQuery struct {
	// From keeps only fills logged at or after this instant.
	From time.Time
	// Status keeps only fills with this execution status.
	Status domain.FillStatus
	// Limit caps the number of returned fills (0 = unlimited).
	Limit int
	// SortDesc orders results by log time descending. Callers that need a
	// particular order must still enforce it themselves; store order is a
	// hint, not a contract.
	SortDesc bool
}

// FillStore is the engine's read-only view of the trade-fill history.
// Fills are appended by an external execution process and never mutated here.
type FillStore interface {
	// Query retrieves fills matching q.
	Query(ctx context.Context, q FillQuery) ([]*domain.TradeFill, error)
	// CountByStatus counts fills with the given status over the full history.
	CountByStatus(ctx context.Context, status domain.FillStatus) (int, error)
}

// OverrideStore holds the single operator-editable report snapshot.
type OverrideStore interface {
	// Get retrieves the snapshot. Returns nil, nil when none has been saved.
	Get(ctx context.Context) (*domain.AuditReport, error)
	// Upsert replaces the snapshot wholesale. There is no field-level merge;
	// concurrent writers race last-write-wins.
	Upsert(ctx context.Context, report *domain.AuditReport) error
}
