package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrForbidden is returned when the caller does not own the appointment.
	ErrForbidden = errors.New("not authorized to access this appointment")
	// ErrUserMismatch is returned when a personal appointment names another
	// user as its owner.
	ErrUserMismatch = errors.New("cannot create appointments for another user")
)

type Service struct {
	appointments Repository
	profiles     careprofile.Authorizer
}

func NewService(appointments Repository, profiles careprofile.Authorizer) *Service {
	return &Service{appointments: appointments, profiles: profiles}
}

// Create stores an appointment. With a care_profile_id the caller must own
// the profile; without one it is a personal appointment and an explicit
// user_id other than the caller's is rejected.
func (s *Service) Create(ctx context.Context, userID string, a *Appointment) error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.AppointmentTime.IsZero() {
		return fmt.Errorf("appointment_time is required")
	}

	if a.AppointmentType == "" {
		a.AppointmentType = "check-up"
	}
	if !validTypes[a.AppointmentType] {
		return fmt.Errorf("invalid appointment_type: %s", a.AppointmentType)
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}

	if a.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *a.CareProfileID, userID); err != nil {
			return err
		}
	} else if a.UserID != "" && a.UserID != userID {
		return ErrUserMismatch
	}
	a.UserID = userID

	return s.appointments.Create(ctx, a)
}

// Get loads an appointment and verifies access: through the care profile
// when one is attached, by direct ownership otherwise.
func (s *Service) Get(ctx context.Context, id, userID string) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *a.CareProfileID, userID); err != nil {
			return nil, err
		}
	} else if a.UserID != userID {
		return nil, ErrForbidden
	}
	return a, nil
}

// Update applies a partial update; an empty payload returns the record
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*Appointment, error) {
	a, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return a, nil
	}
	if upd.AppointmentType != nil && !validTypes[*upd.AppointmentType] {
		return nil, fmt.Errorf("invalid appointment_type: %s", *upd.AppointmentType)
	}
	if upd.Status != nil && !validStatuses[*upd.Status] {
		return nil, fmt.Errorf("invalid status: %s", *upd.Status)
	}
	upd.Apply(a)
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.appointments.Delete(ctx, id)
}

// Complete marks an appointment as done.
func (s *Service) Complete(ctx context.Context, id, userID string) (*Appointment, error) {
	status := "completed"
	return s.Update(ctx, id, userID, &Update{Status: &status})
}

// ListForProfile returns a profile's appointments inside the optional
// [start, end] window after verifying the caller owns the profile.
func (s *Service) ListForProfile(ctx context.Context, careProfileID, userID string, start, end *time.Time) ([]*Appointment, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	return s.appointments.ListByProfile(ctx, careProfileID, start, end)
}

// ListToday returns the profile's appointments inside today's window.
func (s *Service) ListToday(ctx context.Context, careProfileID, userID string) ([]*Appointment, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return s.ListForProfile(ctx, careProfileID, userID, &start, &end)
}

// ListUpcoming returns the profile's appointments from now through the next
// `days` days (default 7).
func (s *Service) ListUpcoming(ctx context.Context, careProfileID, userID string, days int) ([]*Appointment, error) {
	if days <= 0 {
		days = 7
	}
	start := time.Now().UTC()
	end := start.Add(time.Duration(days) * 24 * time.Hour)
	return s.ListForProfile(ctx, careProfileID, userID, &start, &end)
}
