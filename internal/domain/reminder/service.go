package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a reminder does not exist.
	ErrNotFound = errors.New("reminder not found")
	// ErrForbidden is returned when the caller does not own the reminder.
	ErrForbidden = errors.New("not authorized to access this reminder")
	// ErrLimitReached is returned when the caller's plan allows no more
	// medication reminders on that day.
	ErrLimitReached = errors.New("daily medication reminder limit reached for current plan")
)

// PlanSource answers plan-limit questions for a user. The subscription
// service satisfies it.
type PlanSource interface {
	MaxPillRemindersPerDay(ctx context.Context, userID string) (int, error)
}

type Service struct {
	reminders Repository
	profiles  careprofile.Authorizer
	plans     PlanSource
}

// NewService wires the reminder service. A nil plans source skips the
// daily medication reminder limit.
func NewService(reminders Repository, profiles careprofile.Authorizer, plans PlanSource) *Service {
	return &Service{reminders: reminders, profiles: profiles, plans: plans}
}

// Create stores a reminder after profile authorization. Medication
// reminders count against the plan's per-day allowance, keyed on the
// reminder's UTC day.
func (s *Service) Create(ctx context.Context, userID string, r *Reminder) error {
	if !ValidReminderType(r.ReminderType) {
		return fmt.Errorf("invalid reminder_type: %s", r.ReminderType)
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.ReminderTime.IsZero() {
		return fmt.Errorf("reminder_time is required")
	}

	if r.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *r.CareProfileID, userID); err != nil {
			return err
		}
	}
	r.UserID = userID

	if r.ReminderType == "medication" && s.plans != nil {
		max, err := s.plans.MaxPillRemindersPerDay(ctx, userID)
		if err != nil {
			return err
		}
		day := r.ReminderTime.UTC().Truncate(24 * time.Hour)
		count, err := s.reminders.CountByTypeForWindow(ctx, userID, "medication", day, day.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if count >= int64(max) {
			return ErrLimitReached
		}
	}

	return s.reminders.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Reminder, error) {
	r, err := s.reminders.GetByID(ctx, id)
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

// Update applies a partial update; an empty payload returns the reminder
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*Reminder, error) {
	r, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return r, nil
	}
	if upd.ReminderType != nil && !ValidReminderType(*upd.ReminderType) {
		return nil, fmt.Errorf("invalid reminder_type: %s", *upd.ReminderType)
	}
	upd.Apply(r)
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.reminders.Delete(ctx, id)
}

// ListForProfile returns a profile's reminders ordered by reminder_time.
func (s *Service) ListForProfile(ctx context.Context, careProfileID, userID string, activeOnly bool, reminderType string) ([]*Reminder, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	if reminderType != "" && !ValidReminderType(reminderType) {
		return nil, fmt.Errorf("invalid reminder_type: %s", reminderType)
	}
	return s.reminders.ListByProfile(ctx, careProfileID, activeOnly, reminderType)
}
