package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

const dateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when a calendar event does not exist.
	ErrNotFound = errors.New("calendar event not found")
	// ErrForbidden is returned when the caller does not own the event.
	ErrForbidden = errors.New("not authorized to access this event")
	// ErrProfileRequired is returned when an event is created without a
	// care profile.
	ErrProfileRequired = errors.New("care profile ID is required for calendar events")
)

type Service struct {
	events   Repository
	profiles careprofile.Authorizer
}

func NewService(events Repository, profiles careprofile.Authorizer) *Service {
	return &Service{events: events, profiles: profiles}
}

// Create stores an event on a care profile's calendar. Events always belong
// to a profile; the caller must own it.
func (s *Service) Create(ctx context.Context, userID string, e *Event) error {
	if e.CareProfileID == "" {
		return ErrProfileRequired
	}
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !ValidEventType(e.EventType) {
		return fmt.Errorf("invalid event_type: %s", e.EventType)
	}
	if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return fmt.Errorf("invalid date, expected YYYY-MM-DD: %s", e.Date)
	}
	if e.Status == "" {
		e.Status = "pending"
	} else if !ValidStatus(e.Status) {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	if e.ColorCode == nil {
		color := ColorFor(e.EventType)
		e.ColorCode = &color
	}

	if err := s.profiles.Authorize(ctx, e.CareProfileID, userID); err != nil {
		return err
	}
	e.UserID = userID

	return s.events.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.profiles.Authorize(ctx, e.CareProfileID, userID); err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies a partial update; an empty payload returns the event
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*Event, error) {
	e, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return e, nil
	}
	if upd.EventType != nil && !ValidEventType(*upd.EventType) {
		return nil, fmt.Errorf("invalid event_type: %s", *upd.EventType)
	}
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("invalid status: %s", *upd.Status)
	}
	if upd.Date != nil {
		if _, err := time.Parse(dateLayout, *upd.Date); err != nil {
			return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD: %s", *upd.Date)
		}
	}
	upd.Apply(e)
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.events.Delete(ctx, id)
}

// MarkStatus records an event's outcome, e.g. a medication event as taken.
func (s *Service) MarkStatus(ctx context.Context, id, userID, status string) (*Event, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	return s.Update(ctx, id, userID, &Update{Status: &status})
}

// DayView returns a single date's events, sorted by time of day.
func (s *Service) DayView(ctx context.Context, careProfileID, userID, date string) (*Day, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD: %s", date)
	}
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByDateRange(ctx, careProfileID, date, date)
	if err != nil {
		return nil, err
	}
	return &Day{Date: date, Events: events}, nil
}

// TodayView returns today's events in UTC.
func (s *Service) TodayView(ctx context.Context, careProfileID, userID string) (*Day, error) {
	return s.DayView(ctx, careProfileID, userID, time.Now().UTC().Format(dateLayout))
}

// MonthView returns the whole month with a Day entry for every date, events
// bucketed per day.
func (s *Service) MonthView(ctx context.Context, careProfileID, userID string, year, month int) (*Month, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	events, err := s.events.ListByDateRange(ctx, careProfileID,
		first.Format(dateLayout), last.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*Event)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	days := make(map[string]*Day, last.Day())
	for d := 1; d <= last.Day(); d++ {
		iso := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		dayEvents := byDate[iso]
		if dayEvents == nil {
			dayEvents = []*Event{}
		}
		days[iso] = &Day{Date: iso, Events: dayEvents}
	}

	return &Month{Year: year, Month: month, Days: days}, nil
}
