package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrAlreadyExists is returned when the caller already holds a plan.
	ErrAlreadyExists = errors.New("user already has an active subscription")
	// ErrForbidden is returned when the caller names another user.
	ErrForbidden = errors.New("cannot create subscription for another user")
	// ErrNotFound is returned when the caller has no subscription yet.
	ErrNotFound = errors.New("subscription not found for the current user")
)

type Service struct {
	subs Repository
}

func NewService(subs Repository) *Service {
	return &Service{subs: subs}
}

// Create stores the caller's plan. The caller may only create their own;
// missing features are filled from the tier defaults.
func (s *Service) Create(ctx context.Context, callerID string, sub *Subscription) error {
	if sub.UserID != "" && sub.UserID != callerID {
		return ErrForbidden
	}
	sub.UserID = callerID

	if sub.Tier == "" {
		sub.Tier = TierFree
	}
	if !sub.Tier.Valid() {
		return fmt.Errorf("invalid tier: %s", sub.Tier)
	}

	if _, err := s.subs.GetByUser(ctx, callerID); err == nil {
		return ErrAlreadyExists
	} else if !db.IsNotFound(err) {
		return err
	}

	if (sub.Features == Features{}) {
		sub.Features = DefaultFeatures(sub.Tier)
	}
	sub.IsActive = true

	return s.subs.Create(ctx, sub)
}

// GetMine returns the caller's subscription, creating a free one on first
// read so every user always has a plan.
func (s *Service) GetMine(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.subs.GetByUser(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	sub = &Subscription{
		UserID:   userID,
		Tier:     TierFree,
		Features: DefaultFeatures(TierFree),
		IsActive: true,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateMine applies a partial update to the caller's subscription. A change
// to the premium tier extends the plan 30 days, reactivates it and grants the
// premium feature set unless features were supplied explicitly. An empty
// update returns the current subscription unchanged.
func (s *Service) UpdateMine(ctx context.Context, userID string, upd *Update) (*Subscription, error) {
	sub, err := s.subs.GetByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if upd.IsEmpty() {
		return sub, nil
	}

	if upd.Tier != nil {
		if !upd.Tier.Valid() {
			return nil, fmt.Errorf("invalid tier: %s", *upd.Tier)
		}
		if *upd.Tier == TierPremium {
			end := time.Now().UTC().Add(30 * 24 * time.Hour)
			sub.EndDate = &end
			sub.IsActive = true
			if sub.Tier != TierPremium && upd.Features == nil {
				sub.Features = DefaultFeatures(TierPremium)
			}
		}
		sub.Tier = *upd.Tier
	}
	if upd.Features != nil {
		sub.Features = *upd.Features
	}
	if upd.StartDate != nil {
		sub.StartDate = upd.StartDate
	}
	if upd.EndDate != nil {
		sub.EndDate = upd.EndDate
	}
	if upd.IsActive != nil {
		sub.IsActive = *upd.IsActive
	}
	if upd.AutoRenew != nil {
		sub.AutoRenew = *upd.AutoRenew
	}

	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpgradeToPremium switches the caller to the premium tier with auto-renew
// on, delegating the tier-change rules to UpdateMine.
func (s *Service) UpgradeToPremium(ctx context.Context, userID string) (*Subscription, error) {
	premium := TierPremium
	autoRenew := true
	return s.UpdateMine(ctx, userID, &Update{Tier: &premium, AutoRenew: &autoRenew})
}

// TierFeatures lists both tiers' default entitlements.
func (s *Service) TierFeatures() map[Tier]Features {
	return map[Tier]Features{
		TierFree:    DefaultFeatures(TierFree),
		TierPremium: DefaultFeatures(TierPremium),
	}
}

// Entitlements resolves the caller's feature set, creating the free plan
// when none exists yet.
func (s *Service) Entitlements(ctx context.Context, userID string) (Features, error) {
	sub, err := s.GetMine(ctx, userID)
	if err != nil {
		return Features{}, err
	}
	return sub.Features, nil
}

// MaxCareProfiles satisfies careprofile.PlanSource.
func (s *Service) MaxCareProfiles(ctx context.Context, userID string) (int, error) {
	f, err := s.Entitlements(ctx, userID)
	if err != nil {
		return 0, err
	}
	return f.MaxCareProfiles, nil
}

// MaxPillRemindersPerDay satisfies reminder.PlanSource.
func (s *Service) MaxPillRemindersPerDay(ctx context.Context, userID string) (int, error) {
	f, err := s.Entitlements(ctx, userID)
	if err != nil {
		return 0, err
	}
	return f.MaxPillRemindersPerDay, nil
}
