package careprofile

import "context"

// Repository is the persistence boundary for care profiles.
type Repository interface {
	Create(ctx context.Context, cp *CareProfile) error
	GetByID(ctx context.Context, id string) (*CareProfile, error)
	Update(ctx context.Context, cp *CareProfile) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*CareProfile, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
