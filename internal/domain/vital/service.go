package vital

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a vital sign does not exist.
	ErrNotFound = errors.New("vital sign not found")
	// ErrForbidden is returned when the caller does not own the measurement.
	ErrForbidden = errors.New("not authorized to access this vital sign")
)

type Service struct {
	vitals   Repository
	profiles careprofile.Authorizer
}

func NewService(vitals Repository, profiles careprofile.Authorizer) *Service {
	return &Service{vitals: vitals, profiles: profiles}
}

// Record stores a measurement. With a care_profile_id the caller must own
// the profile, otherwise the measurement belongs to the caller directly.
func (s *Service) Record(ctx context.Context, userID string, v *VitalSign) error {
	if !ValidVitalType(v.RecordType) {
		return fmt.Errorf("invalid vital type: %s", v.RecordType)
	}
	if v.Value == nil {
		return fmt.Errorf("value is required")
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}

	if v.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *v.CareProfileID, userID); err != nil {
			return err
		}
	}
	v.UserID = userID

	return s.vitals.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*VitalSign, error) {
	v, err := s.vitals.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if v.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *v.CareProfileID, userID); err != nil {
			return nil, err
		}
	} else if v.UserID != userID {
		return nil, ErrForbidden
	}
	return v, nil
}

// Update applies a partial update; an empty payload returns the measurement
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*VitalSign, error) {
	v, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return v, nil
	}
	if upd.RecordType != nil && !ValidVitalType(*upd.RecordType) {
		return nil, fmt.Errorf("invalid vital type: %s", *upd.RecordType)
	}
	upd.Apply(v)
	if err := s.vitals.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.vitals.Delete(ctx, id)
}

// ListForProfile returns a profile's measurements, newest first, optionally
// filtered by vital type and timestamp window.
func (s *Service) ListForProfile(ctx context.Context, careProfileID, userID, vitalType string, start, end *time.Time) ([]*VitalSign, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	if vitalType != "" && !ValidVitalType(vitalType) {
		return nil, fmt.Errorf("invalid vital type: %s", vitalType)
	}
	return s.vitals.ListByProfile(ctx, careProfileID, vitalType, start, end)
}
