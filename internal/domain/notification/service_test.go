package notification

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	store map[string]*Notification
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*Notification)}
}

func (m *mockRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.New().String()
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	m.store[n.ID] = n
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Notification, error) {
	n, ok := m.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, n *Notification) error {
	if _, ok := m.store[n.ID]; !ok {
		return db.ErrNotFound
	}
	n.UpdatedAt = time.Now().UTC()
	m.store[n.ID] = n
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func visible(n *Notification, now time.Time) bool {
	return n.ScheduledTime == nil || !n.ScheduledTime.After(now)
}

func (m *mockRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, now time.Time, limit int64) ([]*Notification, error) {
	var out []*Notification
	for _, n := range m.store {
		if n.UserID != userID || !visible(n, now) {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) CountUnread(_ context.Context, userID string, now time.Time) (int64, error) {
	var count int64
	for _, n := range m.store {
		if n.UserID == userID && visible(n, now) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) MarkAllRead(_ context.Context, userID string, now time.Time) (int64, error) {
	var updated int64
	for _, n := range m.store {
		if n.UserID == userID && visible(n, now) && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

// -- Service Tests --

func TestPush_Defaults(t *testing.T) {
	svc := newTestService()
	n := &Notification{Title: "Refill due"}
	if err := svc.Push(context.Background(), "user-1", n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NotificationType != "other" {
		t.Errorf("expected default type other, got %q", n.NotificationType)
	}
	if n.Timestamp.IsZero() {
		t.Error("expected timestamp to default to now")
	}
	if n.IsRead {
		t.Error("expected new entries to be unread")
	}
}

func TestPush_InvalidType(t *testing.T) {
	svc := newTestService()
	n := &Notification{Title: "X", NotificationType: "spam"}
	if err := svc.Push(context.Background(), "user-1", n); err == nil {
		t.Fatal("expected error for unknown notification_type")
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	svc := newTestService()
	now := time.Now().UTC()

	mk := func(title string, at time.Time) {
		svc.Push(context.Background(), "user-1", &Notification{Title: title, Timestamp: at})
	}
	mk("oldest", now.Add(-2*time.Hour))
	mk("newest", now)
	mk("middle", now.Add(-time.Hour))

	feed, err := svc.Feed(context.Background(), "user-1", false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(feed))
	}
	if feed[0].Title != "newest" || feed[2].Title != "oldest" {
		t.Error("expected the feed sorted newest first")
	}
}

func TestFeed_WithholdsFutureScheduled(t *testing.T) {
	svc := newTestService()
	future := time.Now().UTC().Add(2 * time.Hour)
	past := time.Now().UTC().Add(-time.Hour)

	svc.Push(context.Background(), "user-1", &Notification{Title: "due", ScheduledTime: &past})
	svc.Push(context.Background(), "user-1", &Notification{Title: "not yet", ScheduledTime: &future})

	feed, err := svc.Feed(context.Background(), "user-1", false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed) != 1 || feed[0].Title != "due" {
		t.Errorf("expected only the due entry, got %d", len(feed))
	}
}

func TestFeed_UnreadOnlyAndLimit(t *testing.T) {
	svc := newTestService()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		svc.Push(context.Background(), "user-1", &Notification{
			Title: "entry", Timestamp: now.Add(time.Duration(i) * time.Minute),
		})
	}

	all, _ := svc.Feed(context.Background(), "user-1", false, 0)
	if _, err := svc.MarkRead(context.Background(), all[0].ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unread, err := svc.Feed(context.Background(), "user-1", true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread entries, got %d", len(unread))
	}

	limited, _ := svc.Feed(context.Background(), "user-1", false, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit to cap the feed, got %d", len(limited))
	}
}

func TestUnreadCount(t *testing.T) {
	svc := newTestService()
	svc.Push(context.Background(), "user-1", &Notification{Title: "a"})
	svc.Push(context.Background(), "user-1", &Notification{Title: "b"})
	svc.Push(context.Background(), "user-2", &Notification{Title: "someone else's"})

	count, err := svc.UnreadCount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}
}

func TestMarkRead_Foreign(t *testing.T) {
	svc := newTestService()
	n := &Notification{Title: "private"}
	svc.Push(context.Background(), "user-1", n)

	if _, err := svc.MarkRead(context.Background(), n.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := newTestService()
	svc.Push(context.Background(), "user-1", &Notification{Title: "a"})
	svc.Push(context.Background(), "user-1", &Notification{Title: "b"})

	updated, err := svc.MarkAllRead(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 entries marked read, got %d", updated)
	}

	count, _ := svc.UnreadCount(context.Background(), "user-1")
	if count != 0 {
		t.Errorf("expected 0 unread afterwards, got %d", count)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	n := &Notification{Title: "old"}
	svc.Push(context.Background(), "user-1", n)

	if err := svc.Delete(context.Background(), n.ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), n.ID, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on the second delete, got %v", err)
	}
}
