package careprofile

import (
	"context"
	"errors"
	"fmt"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a care profile does not exist.
	ErrNotFound = errors.New("care profile not found")
	// ErrForbidden is returned when the caller does not own the profile.
	ErrForbidden = errors.New("not authorized to access this care profile")
	// ErrLimitReached is returned when the caller's plan does not allow
	// another care profile.
	ErrLimitReached = errors.New("care profile limit reached for current plan")
	// ErrEmptyUpdate is returned for an update payload with no fields.
	ErrEmptyUpdate = errors.New("no fields provided for update")
)

// Authorizer is implemented by the Service and consumed by the domains that
// hang data off a care profile (medications, vitals, calendar, ...). It
// answers "may this user touch this profile" with ErrNotFound, ErrForbidden
// or nil.
type Authorizer interface {
	Authorize(ctx context.Context, careProfileID, userID string) error
}

// PlanSource reports the caller's plan limit on care profiles.
type PlanSource interface {
	MaxCareProfiles(ctx context.Context, userID string) (int, error)
}

type Service struct {
	profiles Repository
	plans    PlanSource
}

// NewService wires the profile repository with the subscription-backed plan
// source. plans may be nil, in which case no limit is enforced.
func NewService(profiles Repository, plans PlanSource) *Service {
	return &Service{profiles: profiles, plans: plans}
}

func (s *Service) Create(ctx context.Context, userID string, cp *CareProfile) error {
	if cp.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if cp.Relationship == "" {
		return fmt.Errorf("relationship is required")
	}

	if s.plans != nil {
		max, err := s.plans.MaxCareProfiles(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve plan limits: %w", err)
		}
		count, err := s.profiles.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count >= int64(max) {
			return ErrLimitReached
		}
	}

	cp.UserID = userID
	return s.profiles.Create(ctx, cp)
}

// Get loads a profile and verifies the caller owns it.
func (s *Service) Get(ctx context.Context, id, userID string) (*CareProfile, error) {
	cp, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cp.UserID != userID {
		return nil, ErrForbidden
	}
	return cp, nil
}

// Authorize implements Authorizer for the child domains.
func (s *Service) Authorize(ctx context.Context, careProfileID, userID string) error {
	_, err := s.Get(ctx, careProfileID, userID)
	return err
}

func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*CareProfile, error) {
	if upd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	cp, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	upd.Apply(cp)
	if err := s.profiles.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.profiles.Delete(ctx, id)
}

// ListMine returns the caller's profiles, oldest first.
func (s *Service) ListMine(ctx context.Context, userID string, limit int) ([]*CareProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.profiles.ListByUser(ctx, userID, limit)
}
