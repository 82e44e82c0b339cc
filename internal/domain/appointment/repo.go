package appointment

import (
	"context"
	"time"
)

// Repository is the persistence boundary for appointments.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
	// ListByProfile returns a profile's appointments inside the optional
	// [start, end] window, ordered by appointment_time.
	ListByProfile(ctx context.Context, careProfileID string, start, end *time.Time) ([]*Appointment, error)
}
