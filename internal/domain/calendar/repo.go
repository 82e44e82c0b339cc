package calendar

import "context"

// Repository is the persistence boundary for calendar events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	// ListByDateRange returns a profile's events with startDate <= date <=
	// endDate (YYYY-MM-DD bounds, inclusive), sorted by date then time.
	ListByDateRange(ctx context.Context, careProfileID, startDate, endDate string) ([]*Event, error)
}
