package medication

import (
	"context"
	"time"
)

// Repository is the persistence boundary for medications and their
// adherence logs.
type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id string) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id string) error
	// ListByProfile returns a profile's medications sorted by name.
	ListByProfile(ctx context.Context, careProfileID string, activeOnly bool) ([]*Medication, error)

	CreateLog(ctx context.Context, l *Log) error
	// ListLogsByMedication returns one medication's logs inside the optional
	// [start, end] window, ordered by timestamp.
	ListLogsByMedication(ctx context.Context, medicationID string, start, end *time.Time) ([]*Log, error)
	// ListLogsByProfile does the same for a whole care profile.
	ListLogsByProfile(ctx context.Context, careProfileID string, start, end *time.Time) ([]*Log, error)
}
