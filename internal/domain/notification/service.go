package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")
	// ErrForbidden is returned when the caller does not own the entry.
	ErrForbidden = errors.New("not authorized to access this notification")
)

type Service struct {
	feed Repository
	// now is swappable in tests.
	now func() time.Time
}

func NewService(feed Repository) *Service {
	return &Service{feed: feed, now: func() time.Time { return time.Now().UTC() }}
}

// Push adds an entry to the caller's own feed.
func (s *Service) Push(ctx context.Context, userID string, n *Notification) error {
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if n.NotificationType == "" {
		n.NotificationType = "other"
	} else if !ValidType(n.NotificationType) {
		return fmt.Errorf("invalid notification_type: %s", n.NotificationType)
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.now()
	}
	n.UserID = userID
	n.IsRead = false

	return s.feed.Create(ctx, n)
}

// Feed returns the caller's visible notifications, newest first.
func (s *Service) Feed(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]*Notification, error) {
	return s.feed.ListByUser(ctx, userID, unreadOnly, s.now(), limit)
}

// UnreadCount counts visible unread entries.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.feed.CountUnread(ctx, userID, s.now())
}

func (s *Service) get(ctx context.Context, id, userID string) (*Notification, error) {
	n, err := s.feed.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrForbidden
	}
	return n, nil
}

// MarkRead flags one entry as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) (*Notification, error) {
	n, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true
	if err := s.feed.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead flags every visible entry as read and reports how many
// changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.feed.MarkAllRead(ctx, userID, s.now())
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.get(ctx, id, userID); err != nil {
		return err
	}
	return s.feed.Delete(ctx, id)
}
