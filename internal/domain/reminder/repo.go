package reminder

import (
	"context"
	"time"
)

// Repository is the persistence boundary for reminders.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id string) (*Reminder, error)
	Update(ctx context.Context, r *Reminder) error
	Delete(ctx context.Context, id string) error
	// ListByProfile returns a profile's reminders ordered by reminder_time,
	// optionally restricted to active ones and/or a single type.
	ListByProfile(ctx context.Context, careProfileID string, activeOnly bool, reminderType string) ([]*Reminder, error)
	// CountByTypeForWindow counts a user's reminders of the given type with
	// reminder_time inside [start, end).
	CountByTypeForWindow(ctx context.Context, userID, reminderType string, start, end time.Time) (int64, error)
}
