package notification

import (
	"context"
	"time"
)

// Repository is the persistence boundary for the notification feed.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	Update(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns a user's feed newest first, hiding entries whose
	// scheduled_time is after now. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, now time.Time, limit int64) ([]*Notification, error)
	// CountUnread counts a user's visible unread entries.
	CountUnread(ctx context.Context, userID string, now time.Time) (int64, error)
	// MarkAllRead flags every visible entry of the user as read.
	MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error)
}
