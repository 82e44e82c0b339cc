package healthrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a health record does not exist.
	ErrNotFound = errors.New("health record not found")
	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("not authorized to access this health record")
)

type Service struct {
	records  Repository
	profiles careprofile.Authorizer
}

func NewService(records Repository, profiles careprofile.Authorizer) *Service {
	return &Service{records: records, profiles: profiles}
}

// Create stores a health record. With a care_profile_id the caller must own
// the profile, otherwise the record belongs to the caller directly.
func (s *Service) Create(ctx context.Context, userID string, r *HealthRecord) error {
	if !ValidRecordType(r.RecordType) {
		return fmt.Errorf("invalid record_type: %s", r.RecordType)
	}
	if r.Value == nil {
		return fmt.Errorf("value is required")
	}
	if r.DateRecorded.IsZero() {
		r.DateRecorded = time.Now().UTC()
	}

	if r.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *r.CareProfileID, userID); err != nil {
			return err
		}
	}
	r.UserID = userID

	return s.records.Create(ctx, r)
}

// Get loads a record and verifies access: through the care profile when one
// is attached, by direct ownership otherwise.
func (s *Service) Get(ctx context.Context, id, userID string) (*HealthRecord, error) {
	r, err := s.records.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *r.CareProfileID, userID); err != nil {
			return nil, err
		}
	} else if r.UserID != userID {
		return nil, ErrForbidden
	}
	return r, nil
}

// Update applies a partial update; an empty payload returns the record
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*HealthRecord, error) {
	r, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return r, nil
	}
	if upd.RecordType != nil && !ValidRecordType(*upd.RecordType) {
		return nil, fmt.Errorf("invalid record_type: %s", *upd.RecordType)
	}
	upd.Apply(r)
	if err := s.records.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.records.Delete(ctx, id)
}

// ListForProfile returns a profile's records, newest first, optionally
// filtered by record type.
func (s *Service) ListForProfile(ctx context.Context, careProfileID, userID, recordType string) ([]*HealthRecord, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	if recordType != "" && !ValidRecordType(recordType) {
		return nil, fmt.Errorf("invalid record_type: %s", recordType)
	}
	return s.records.ListByProfile(ctx, careProfileID, recordType)
}
