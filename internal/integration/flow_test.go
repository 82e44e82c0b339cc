// Package integration wires real services against in-memory fakes and walks
// the core caregiver flow end to end: register, create a care profile, add a
// medication and read back today's doses.
package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/domain/medication"
	"github.com/EMB-revenge/AlagaApp/internal/domain/subscription"
	"github.com/EMB-revenge/AlagaApp/internal/domain/user"
	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

// ---------------------------------------------------------------------------
// In-memory fakes. Each mirrors the document store's contract: generated IDs
// on create, db.ErrNotFound for missing documents.
// ---------------------------------------------------------------------------

type fakeIdentity struct {
	accounts map[string]*auth.Account // keyed by email
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: map[string]*auth.Account{}}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, p auth.CreateAccountParams) (*auth.Account, error) {
	if _, ok := f.accounts[p.Email]; ok {
		return nil, auth.ErrEmailExists
	}
	a := &auth.Account{UID: uuid.New().String(), Email: p.Email, DisplayName: p.DisplayName}
	f.accounts[p.Email] = a
	return a, nil
}

func (f *fakeIdentity) GetAccountByEmail(_ context.Context, email string) (*auth.Account, error) {
	a, ok := f.accounts[email]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	for email, a := range f.accounts {
		if a.UID == uid {
			delete(f.accounts, email)
			return nil
		}
	}
	return auth.ErrAccountNotFound
}

type fakeUserRepo struct {
	store map[string]*user.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	r.store[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.store[u.ID]; !ok {
		return db.ErrNotFound
	}
	r.store[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

type fakeProfileRepo struct {
	store map[string]*careprofile.CareProfile
}

func (r *fakeProfileRepo) Create(_ context.Context, cp *careprofile.CareProfile) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.store[cp.ID] = cp
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*careprofile.CareProfile, error) {
	cp, ok := r.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *cp
	return &copied, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, cp *careprofile.CareProfile) error {
	if _, ok := r.store[cp.ID]; !ok {
		return db.ErrNotFound
	}
	r.store[cp.ID] = cp
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *fakeProfileRepo) ListByUser(_ context.Context, userID string, limit int) ([]*careprofile.CareProfile, error) {
	out := []*careprofile.CareProfile{}
	for _, cp := range r.store {
		if cp.UserID == userID {
			copied := *cp
			out = append(out, &copied)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, cp := range r.store {
		if cp.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeSubRepo struct {
	store map[string]*subscription.Subscription // keyed by user ID
}

func (r *fakeSubRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	r.store[sub.UserID] = sub
	return nil
}

func (r *fakeSubRepo) GetByUser(_ context.Context, userID string) (*subscription.Subscription, error) {
	sub, ok := r.store[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubRepo) Update(_ context.Context, sub *subscription.Subscription) error {
	if _, ok := r.store[sub.UserID]; !ok {
		return db.ErrNotFound
	}
	r.store[sub.UserID] = sub
	return nil
}

type fakeMedRepo struct {
	meds map[string]*medication.Medication
	logs []*medication.Log
}

func (r *fakeMedRepo) Create(_ context.Context, m *medication.Medication) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.meds[m.ID] = m
	return nil
}

func (r *fakeMedRepo) GetByID(_ context.Context, id string) (*medication.Medication, error) {
	m, ok := r.meds[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMedRepo) Update(_ context.Context, m *medication.Medication) error {
	if _, ok := r.meds[m.ID]; !ok {
		return db.ErrNotFound
	}
	r.meds[m.ID] = m
	return nil
}

func (r *fakeMedRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.meds[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.meds, id)
	return nil
}

func (r *fakeMedRepo) ListByProfile(_ context.Context, careProfileID string, activeOnly bool) ([]*medication.Medication, error) {
	out := []*medication.Medication{}
	for _, m := range r.meds {
		if m.CareProfileID == nil || *m.CareProfileID != careProfileID {
			continue
		}
		if activeOnly && !m.IsActive {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMedRepo) CreateLog(_ context.Context, l *medication.Log) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeMedRepo) ListLogsByMedication(_ context.Context, medicationID string, start, end *time.Time) ([]*medication.Log, error) {
	out := []*medication.Log{}
	for _, l := range r.logs {
		if l.MedicationID != medicationID {
			continue
		}
		if start != nil && l.Timestamp.Before(*start) {
			continue
		}
		if end != nil && l.Timestamp.After(*end) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeMedRepo) ListLogsByProfile(_ context.Context, careProfileID string, start, end *time.Time) ([]*medication.Log, error) {
	out := []*medication.Log{}
	for _, l := range r.logs {
		if l.CareProfileID != careProfileID {
			continue
		}
		if start != nil && l.Timestamp.Before(*start) {
			continue
		}
		if end != nil && l.Timestamp.After(*end) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Flow
// ---------------------------------------------------------------------------

func TestCaregiverFlow(t *testing.T) {
	ctx := context.Background()

	userSvc := user.NewService(&fakeUserRepo{store: map[string]*user.User{}}, newFakeIdentity())
	subSvc := subscription.NewService(&fakeSubRepo{store: map[string]*subscription.Subscription{}})
	profileSvc := careprofile.NewService(&fakeProfileRepo{store: map[string]*careprofile.CareProfile{}}, subSvc)
	medSvc := medication.NewService(&fakeMedRepo{meds: map[string]*medication.Medication{}}, profileSvc, 5)

	// Register
	caregiver, err := userSvc.Register(ctx, &user.RegisterRequest{
		Email:       "ana@example.com",
		Password:    "secret",
		FullName:    "Ana Reyes",
		IsCaregiver: true,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if caregiver.ID == "" {
		t.Fatal("expected the provider UID as the user ID")
	}

	// The first subscription read provisions a free plan.
	sub, err := subSvc.GetMine(ctx, caregiver.ID)
	if err != nil {
		t.Fatalf("reading subscription failed: %v", err)
	}
	if sub.Tier != subscription.TierFree {
		t.Fatalf("expected a free subscription, got %s", sub.Tier)
	}

	// Create a care profile for a parent.
	profile := &careprofile.CareProfile{FullName: "Lola Remedios", Relationship: "parent"}
	if err := profileSvc.Create(ctx, caregiver.ID, profile); err != nil {
		t.Fatalf("creating care profile failed: %v", err)
	}

	// The free plan allows exactly one profile.
	second := &careprofile.CareProfile{FullName: "Lolo Jose", Relationship: "parent"}
	if err := profileSvc.Create(ctx, caregiver.ID, second); !errors.Is(err, careprofile.ErrLimitReached) {
		t.Fatalf("expected the profile limit, got %v", err)
	}

	// Add a daily medication started in the past.
	inventory := 10
	med := &medication.Medication{
		Name:           "Losartan",
		CareProfileID:  &profile.ID,
		StartDate:      "2020-01-01",
		Schedules:      []medication.Schedule{{Time: "08:00", FrequencyType: medication.FrequencyDaily}},
		InventoryCount: &inventory,
		IsActive:       true,
	}
	if err := medSvc.Create(ctx, caregiver.ID, med); err != nil {
		t.Fatalf("creating medication failed: %v", err)
	}

	// It shows up in today's schedule.
	today, err := medSvc.TodayForProfile(ctx, profile.ID, caregiver.ID)
	if err != nil {
		t.Fatalf("today view failed: %v", err)
	}
	if len(today) != 1 || today[0].Name != "Losartan" {
		t.Fatalf("expected the daily medication today, got %d entries", len(today))
	}

	// Logging an intake decrements the inventory.
	if err := medSvc.LogIntake(ctx, caregiver.ID, &medication.Log{MedicationID: med.ID}); err != nil {
		t.Fatalf("logging intake failed: %v", err)
	}
	got, err := medSvc.Get(ctx, med.ID, caregiver.ID)
	if err != nil {
		t.Fatalf("reading medication back failed: %v", err)
	}
	if got.InventoryCount == nil || *got.InventoryCount != 9 {
		t.Fatalf("expected inventory 9 after one intake, got %v", got.InventoryCount)
	}

	// A stranger cannot see the profile's medications.
	if _, err := medSvc.TodayForProfile(ctx, profile.ID, "stranger"); !errors.Is(err, careprofile.ErrForbidden) {
		t.Fatalf("expected forbidden for a stranger, got %v", err)
	}
}

func TestCaregiverFlow_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userSvc := user.NewService(&fakeUserRepo{store: map[string]*user.User{}}, newFakeIdentity())

	req := &user.RegisterRequest{Email: "ana@example.com", Password: "secret", FullName: "Ana Reyes"}
	if _, err := userSvc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := userSvc.Register(ctx, req); !errors.Is(err, user.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}
