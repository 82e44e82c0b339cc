package healthrecord

import "context"

// Repository is the persistence boundary for health records.
type Repository interface {
	Create(ctx context.Context, r *HealthRecord) error
	GetByID(ctx context.Context, id string) (*HealthRecord, error)
	Update(ctx context.Context, r *HealthRecord) error
	Delete(ctx context.Context, id string) error
	// ListByProfile returns a profile's records, optionally filtered by
	// record type, newest first.
	ListByProfile(ctx context.Context, careProfileID, recordType string) ([]*HealthRecord, error)
}
