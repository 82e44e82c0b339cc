package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrEmailExists is returned when registering an email that is taken.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned when a login probe fails.
	ErrInvalidCredentials = errors.New("invalid credentials or user not found")
	// ErrNotFound is returned when the caller's user document is missing.
	ErrNotFound = errors.New("user record not found")
	// ErrEmptyUpdate is returned for an update payload with no fields.
	ErrEmptyUpdate = errors.New("no fields provided for update")
)

// IdentityAPI is the slice of the identity provider's admin surface the user
// service needs. *auth.IdentityClient satisfies it.
type IdentityAPI interface {
	CreateAccount(ctx context.Context, p auth.CreateAccountParams) (*auth.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error)
	DeleteAccount(ctx context.Context, uid string) error
}

type Service struct {
	users    Repository
	identity IdentityAPI
}

func NewService(users Repository, identity IdentityAPI) *Service {
	return &Service{users: users, identity: identity}
}

// Register creates the provider account and then the user document keyed by
// the provider UID. The password is forwarded to the provider only.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}

	params := auth.CreateAccountParams{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.FullName,
	}
	if req.PhoneNumber != nil {
		params.PhoneNumber = *req.PhoneNumber
	}

	account, err := s.identity.CreateAccount(ctx, params)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create provider account: %w", err)
	}

	u := &User{
		ID:          account.UID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   req.BirthDate,
		Gender:      req.Gender,
		Address:     req.Address,
		IsCaregiver: req.IsCaregiver,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login confirms the account exists with the provider. The mobile client
// performs the actual credential exchange against the provider itself, so
// this only answers "is this a known account".
func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", ErrInvalidCredentials
	}
	account, err := s.identity.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return account.UID, nil
}

// Get loads a user document by provider UID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// Update applies a partial update to the caller's document. An empty payload
// returns the current document unchanged.
func (s *Service) Update(ctx context.Context, id string, upd *Update) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return u, nil
	}
	upd.Apply(u)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the provider account first, then the user document. A
// missing document after account deletion is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.identity.DeleteAccount(ctx, id); err != nil && !errors.Is(err, auth.ErrAccountNotFound) {
		return fmt.Errorf("delete provider account: %w", err)
	}
	if err := s.users.Delete(ctx, id); err != nil && !db.IsNotFound(err) {
		return err
	}
	return nil
}

// Exists reports whether a user document exists for the given ID.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := s.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
