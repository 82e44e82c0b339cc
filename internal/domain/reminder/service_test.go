package reminder

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	store map[string]*Reminder
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*Reminder)}
}

func (m *mockRepo) Create(_ context.Context, r *Reminder) error {
	r.ID = uuid.New().String()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.store[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Reminder, error) {
	r, ok := m.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, r *Reminder) error {
	if _, ok := m.store[r.ID]; !ok {
		return db.ErrNotFound
	}
	r.UpdatedAt = time.Now().UTC()
	m.store[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) ListByProfile(_ context.Context, careProfileID string, activeOnly bool, reminderType string) ([]*Reminder, error) {
	var out []*Reminder
	for _, r := range m.store {
		if r.CareProfileID == nil || *r.CareProfileID != careProfileID {
			continue
		}
		if activeOnly && !r.IsActive {
			continue
		}
		if reminderType != "" && r.ReminderType != reminderType {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderTime.Before(out[j].ReminderTime) })
	return out, nil
}

func (m *mockRepo) CountByTypeForWindow(_ context.Context, userID, reminderType string, start, end time.Time) (int64, error) {
	var n int64
	for _, r := range m.store {
		if r.UserID != userID || r.ReminderType != reminderType {
			continue
		}
		if r.ReminderTime.Before(start) || !r.ReminderTime.Before(end) {
			continue
		}
		n++
	}
	return n, nil
}

type mockAuthorizer struct {
	owners map[string]string
}

func (m *mockAuthorizer) Authorize(_ context.Context, careProfileID, userID string) error {
	owner, ok := m.owners[careProfileID]
	if !ok {
		return careprofile.ErrNotFound
	}
	if owner != userID {
		return careprofile.ErrForbidden
	}
	return nil
}

// fixedPlan answers every plan-limit question with one number.
type fixedPlan struct {
	maxPerDay int
}

func (p fixedPlan) MaxPillRemindersPerDay(context.Context, string) (int, error) {
	return p.maxPerDay, nil
}

func newTestService(maxPerDay int) *Service {
	authz := &mockAuthorizer{owners: map[string]string{"profile-1": "user-1"}}
	return NewService(newMockRepo(), authz, fixedPlan{maxPerDay: maxPerDay})
}

func strPtr(s string) *string { return &s }

// -- Service Tests --

func TestCreateReminder(t *testing.T) {
	svc := newTestService(1)
	r := &Reminder{
		ReminderType:  "appointment",
		Title:         "Cardiology tomorrow",
		ReminderTime:  time.Now().UTC().Add(24 * time.Hour),
		CareProfileID: strPtr("profile-1"),
		IsActive:      true,
	}
	if err := svc.Create(context.Background(), "user-1", r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.UserID != "user-1" {
		t.Errorf("expected caller as owner, got %q", r.UserID)
	}
}

func TestCreateReminder_InvalidType(t *testing.T) {
	svc := newTestService(1)
	r := &Reminder{ReminderType: "birthday", Title: "X", ReminderTime: time.Now().UTC()}
	if err := svc.Create(context.Background(), "user-1", r); err == nil {
		t.Fatal("expected error for unknown reminder_type")
	}
}

func TestCreateReminder_MedicationDailyLimit(t *testing.T) {
	svc := newTestService(1)
	at := time.Now().UTC().Add(time.Hour)

	first := &Reminder{ReminderType: "medication", Title: "Morning dose", ReminderTime: at, IsActive: true}
	if err := svc.Create(context.Background(), "user-1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &Reminder{ReminderType: "medication", Title: "Evening dose", ReminderTime: at.Add(time.Minute), IsActive: true}
	if err := svc.Create(context.Background(), "user-1", second); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached on the second medication reminder, got %v", err)
	}
}

func TestCreateReminder_LimitIsPerDay(t *testing.T) {
	svc := newTestService(1)
	at := time.Now().UTC().Truncate(24 * time.Hour).Add(9 * time.Hour)

	today := &Reminder{ReminderType: "medication", Title: "Today", ReminderTime: at, IsActive: true}
	if err := svc.Create(context.Background(), "user-1", today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tomorrow := &Reminder{ReminderType: "medication", Title: "Tomorrow", ReminderTime: at.Add(24 * time.Hour), IsActive: true}
	if err := svc.Create(context.Background(), "user-1", tomorrow); err != nil {
		t.Fatalf("a different day should not hit the limit: %v", err)
	}
}

func TestCreateReminder_LimitSkipsOtherTypes(t *testing.T) {
	svc := newTestService(1)
	at := time.Now().UTC().Add(time.Hour)

	med := &Reminder{ReminderType: "medication", Title: "Dose", ReminderTime: at, IsActive: true}
	if err := svc.Create(context.Background(), "user-1", med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task := &Reminder{ReminderType: "task", Title: "Groceries", ReminderTime: at, IsActive: true}
	if err := svc.Create(context.Background(), "user-1", task); err != nil {
		t.Fatalf("task reminders should not count against the medication limit: %v", err)
	}
}

func TestGetReminder_PersonalOwnership(t *testing.T) {
	svc := newTestService(5)
	r := &Reminder{ReminderType: "other", Title: "Call pharmacy", ReminderTime: time.Now().UTC(), IsActive: true}
	svc.Create(context.Background(), "user-1", r)

	if _, err := svc.Get(context.Background(), r.ID, "user-1"); err != nil {
		t.Fatalf("owner should read their reminder: %v", err)
	}
	if _, err := svc.Get(context.Background(), r.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another user, got %v", err)
	}
}

func TestUpdateReminder_Deactivate(t *testing.T) {
	svc := newTestService(5)
	r := &Reminder{ReminderType: "other", Title: "Call pharmacy", ReminderTime: time.Now().UTC(), IsActive: true}
	svc.Create(context.Background(), "user-1", r)

	off := false
	got, err := svc.Update(context.Background(), r.ID, "user-1", &Update{IsActive: &off})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsActive {
		t.Error("expected the reminder to be deactivated")
	}
}

func TestListForProfile_FiltersAndOrder(t *testing.T) {
	svc := newTestService(10)
	now := time.Now().UTC()

	mk := func(title, reminderType string, at time.Time, active bool) {
		svc.Create(context.Background(), "user-1", &Reminder{
			ReminderType:  reminderType,
			Title:         title,
			ReminderTime:  at,
			IsActive:      active,
			CareProfileID: strPtr("profile-1"),
		})
	}
	mk("Later dose", "medication", now.Add(8*time.Hour), true)
	mk("Early dose", "medication", now.Add(time.Hour), true)
	mk("Old task", "task", now.Add(2*time.Hour), false)

	all, err := svc.ListForProfile(context.Background(), "profile-1", "user-1", false, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(all))
	}
	if all[0].Title != "Early dose" {
		t.Error("expected reminders ordered by reminder_time")
	}

	active, _ := svc.ListForProfile(context.Background(), "profile-1", "user-1", true, "")
	if len(active) != 2 {
		t.Errorf("expected 2 active reminders, got %d", len(active))
	}

	meds, _ := svc.ListForProfile(context.Background(), "profile-1", "user-1", false, "medication")
	if len(meds) != 2 {
		t.Errorf("expected 2 medication reminders, got %d", len(meds))
	}
}
