package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	store map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.store[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.store[u.ID]; !ok {
		return db.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	m.store[u.ID] = u
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// -- Mock identity provider --

type mockIdentity struct {
	accounts map[string]*auth.Account // by email
	deleted  []string
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{accounts: make(map[string]*auth.Account)}
}

func (m *mockIdentity) CreateAccount(_ context.Context, p auth.CreateAccountParams) (*auth.Account, error) {
	if _, ok := m.accounts[p.Email]; ok {
		return nil, auth.ErrEmailExists
	}
	acc := &auth.Account{UID: uuid.New().String(), Email: p.Email, DisplayName: p.DisplayName}
	m.accounts[p.Email] = acc
	return acc, nil
}

func (m *mockIdentity) GetAccountByEmail(_ context.Context, email string) (*auth.Account, error) {
	acc, ok := m.accounts[email]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	return acc, nil
}

func (m *mockIdentity) DeleteAccount(_ context.Context, uid string) error {
	m.deleted = append(m.deleted, uid)
	for email, acc := range m.accounts {
		if acc.UID == uid {
			delete(m.accounts, email)
			return nil
		}
	}
	return auth.ErrAccountNotFound
}

func newTestService() (*Service, *mockRepo, *mockIdentity) {
	repo := newMockRepo()
	identity := newMockIdentity()
	return NewService(repo, identity), repo, identity
}

// -- Service Tests --

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newTestService()

	u, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "ana@example.com",
		Password: "s3cret",
		FullName: "Ana Santos",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected the provider UID as document ID")
	}
	if _, ok := repo.store[u.ID]; !ok {
		t.Error("expected the user document to be stored")
	}
	if u.Email != "ana@example.com" || u.FullName != "Ana Santos" {
		t.Errorf("unexpected stored user: %+v", u)
	}
}

func TestRegister_EmailExists(t *testing.T) {
	svc, _, _ := newTestService()

	req := &RegisterRequest{Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []RegisterRequest{
		{Password: "x", FullName: "A"},
		{Email: "a@b.c", FullName: "A"},
		{Email: "a@b.c", Password: "x"},
	}
	for i, req := range cases {
		if _, err := svc.Register(context.Background(), &req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newTestService()
	u, _ := svc.Register(context.Background(), &RegisterRequest{
		Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos",
	})

	uid, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != u.ID {
		t.Errorf("expected UID %s, got %s", u.ID, uid)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc, _, _ := newTestService()
	u, _ := svc.Register(context.Background(), &RegisterRequest{
		Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos",
	})

	phone := "+63-917-555-0100"
	got, err := svc.Update(context.Background(), u.ID, &Update{PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != phone {
		t.Error("expected phone_number to be updated")
	}
	if got.FullName != "Ana Santos" {
		t.Error("unrelated fields should be untouched")
	}
}

func TestUpdate_EmptyReturnsCurrent(t *testing.T) {
	svc, _, _ := newTestService()
	u, _ := svc.Register(context.Background(), &RegisterRequest{
		Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos",
	})

	got, err := svc.Update(context.Background(), u.ID, &Update{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != "Ana Santos" {
		t.Error("expected the unchanged document")
	}
}

func TestDelete_RemovesAccountAndDocument(t *testing.T) {
	svc, repo, identity := newTestService()
	u, _ := svc.Register(context.Background(), &RegisterRequest{
		Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos",
	})

	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(identity.deleted) != 1 || identity.deleted[0] != u.ID {
		t.Error("expected the provider account to be deleted")
	}
	if _, ok := repo.store[u.ID]; ok {
		t.Error("expected the user document to be deleted")
	}
}

func TestDelete_MissingDocumentTolerated(t *testing.T) {
	svc, _, identity := newTestService()
	identity.accounts["ghost@example.com"] = &auth.Account{UID: "ghost", Email: "ghost@example.com"}

	if err := svc.Delete(context.Background(), "ghost"); err != nil {
		t.Fatalf("a missing document should not fail the delete: %v", err)
	}
}

func TestExists(t *testing.T) {
	svc, _, _ := newTestService()
	u, _ := svc.Register(context.Background(), &RegisterRequest{
		Email: "ana@example.com", Password: "s3cret", FullName: "Ana Santos",
	})

	ok, err := svc.Exists(context.Background(), u.ID)
	if err != nil || !ok {
		t.Errorf("expected registered user to exist: ok=%v err=%v", ok, err)
	}
	ok, err = svc.Exists(context.Background(), "stranger")
	if err != nil || ok {
		t.Errorf("expected unknown user not to exist: ok=%v err=%v", ok, err)
	}
}
