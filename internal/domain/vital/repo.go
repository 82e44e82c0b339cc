package vital

import (
	"context"
	"time"
)

// Repository is the persistence boundary for vital-sign measurements.
type Repository interface {
	Create(ctx context.Context, v *VitalSign) error
	GetByID(ctx context.Context, id string) (*VitalSign, error)
	Update(ctx context.Context, v *VitalSign) error
	Delete(ctx context.Context, id string) error
	// ListByProfile returns a profile's measurements newest first,
	// optionally filtered by vital type and timestamp window.
	ListByProfile(ctx context.Context, careProfileID, vitalType string, start, end *time.Time) ([]*VitalSign, error)
}
