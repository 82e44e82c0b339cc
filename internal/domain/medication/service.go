package medication

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

var (
	// ErrNotFound is returned when a medication does not exist.
	ErrNotFound = errors.New("medication not found")
	// ErrForbidden is returned when the caller does not own the medication.
	ErrForbidden = errors.New("not authorized to access this medication")
)

const dateLayout = "2006-01-02"

type Service struct {
	meds     Repository
	profiles careprofile.Authorizer
	// lowInventory is the pill count at or below which a medication shows
	// up in the refill listing.
	lowInventory int
}

func NewService(meds Repository, profiles careprofile.Authorizer, lowInventory int) *Service {
	if lowInventory <= 0 {
		lowInventory = 5
	}
	return &Service{meds: meds, profiles: profiles, lowInventory: lowInventory}
}

func validateSchedules(schedules []Schedule) error {
	for i, s := range schedules {
		if s.Time == "" {
			return fmt.Errorf("schedule %d: time is required", i)
		}
		if !validFrequencies[s.FrequencyType] {
			return fmt.Errorf("schedule %d: invalid frequency_type: %s", i, s.FrequencyType)
		}
		if s.FrequencyType == FrequencySpecificDays && len(s.DaysOfWeek) == 0 {
			return fmt.Errorf("schedule %d: days_of_week is required for specific_days", i)
		}
		if s.FrequencyType == FrequencyInterval && (s.IntervalDays == nil || *s.IntervalDays <= 0) {
			return fmt.Errorf("schedule %d: a positive interval_days is required for interval", i)
		}
	}
	return nil
}

// Create stores a medication after validating its schedules. With a
// care_profile_id the caller must own the profile.
func (s *Service) Create(ctx context.Context, userID string, m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.StartDate == "" {
		return fmt.Errorf("start_date is required")
	}
	if _, err := time.Parse(dateLayout, m.StartDate); err != nil {
		return fmt.Errorf("invalid start_date: %s", m.StartDate)
	}
	if m.EndDate != nil {
		if _, err := time.Parse(dateLayout, *m.EndDate); err != nil {
			return fmt.Errorf("invalid end_date: %s", *m.EndDate)
		}
	}
	if err := validateSchedules(m.Schedules); err != nil {
		return err
	}

	if m.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *m.CareProfileID, userID); err != nil {
			return err
		}
	}
	m.UserID = userID

	return s.meds.Create(ctx, m)
}

// Get loads a medication and verifies access: through the care profile when
// one is attached, by direct ownership otherwise.
func (s *Service) Get(ctx context.Context, id, userID string) (*Medication, error) {
	m, err := s.meds.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.CareProfileID != nil {
		if err := s.profiles.Authorize(ctx, *m.CareProfileID, userID); err != nil {
			return nil, err
		}
	} else if m.UserID != userID {
		return nil, ErrForbidden
	}
	return m, nil
}

// Update applies a partial update; an empty payload returns the record
// unchanged.
func (s *Service) Update(ctx context.Context, id, userID string, upd *Update) (*Medication, error) {
	m, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return m, nil
	}
	if upd.Schedules != nil {
		if err := validateSchedules(*upd.Schedules); err != nil {
			return nil, err
		}
	}
	upd.Apply(m)
	if err := s.meds.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.meds.Delete(ctx, id)
}

// ListForProfile returns a profile's medications sorted by name after
// verifying the caller owns the profile.
func (s *Service) ListForProfile(ctx context.Context, careProfileID, userID string, activeOnly bool) ([]*Medication, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	return s.meds.ListByProfile(ctx, careProfileID, activeOnly)
}

// TodayForProfile returns the profile's active medications that have at
// least one schedule matching today's calendar date. Each returned
// medication carries only its matching schedules, and the list is sorted by
// the earliest schedule time.
//
// Matching rules per schedule: daily always matches; specific_days matches
// when today's weekday name is listed; interval matches when a whole number
// of intervals has elapsed since the medication's start_date; as_needed
// never matches a calendar day.
func (s *Service) TodayForProfile(ctx context.Context, careProfileID, userID string) ([]*Medication, error) {
	meds, err := s.ListForProfile(ctx, careProfileID, userID, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := now.Format(dateLayout)
	weekday := now.Weekday().String()

	var result []*Medication
	for _, m := range meds {
		// Calendar dates compare correctly as YYYY-MM-DD strings.
		if m.StartDate != "" && m.StartDate > today {
			continue
		}
		if m.EndDate != nil && *m.EndDate < today {
			continue
		}

		var matching []Schedule
		for _, sch := range m.Schedules {
			if scheduleMatchesToday(sch, m.StartDate, today, weekday) {
				matching = append(matching, sch)
			}
		}
		if len(matching) == 0 {
			continue
		}

		copied := *m
		copied.Schedules = matching
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return earliestTime(result[i].Schedules) < earliestTime(result[j].Schedules)
	})
	return result, nil
}

func scheduleMatchesToday(sch Schedule, startDate, today, weekday string) bool {
	switch sch.FrequencyType {
	case FrequencyDaily:
		return true
	case FrequencySpecificDays:
		for _, d := range sch.DaysOfWeek {
			if d == weekday {
				return true
			}
		}
		return false
	case FrequencyInterval:
		if startDate == "" || sch.IntervalDays == nil || *sch.IntervalDays <= 0 {
			return false
		}
		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return false
		}
		day, err := time.Parse(dateLayout, today)
		if err != nil {
			return false
		}
		delta := int(day.Sub(start).Hours() / 24)
		return delta >= 0 && delta%*sch.IntervalDays == 0
	default:
		// as_needed is not tied to a calendar day.
		return false
	}
}

// earliestTime returns the smallest "HH:MM" string among the schedules.
func earliestTime(schedules []Schedule) string {
	min := "24:00"
	for _, s := range schedules {
		if s.Time < min {
			min = s.Time
		}
	}
	return min
}

// LogIntake records an adherence log. When the medication is known and has
// inventory left, the count is decremented, never below zero. A log against
// an unknown medication is still recorded.
func (s *Service) LogIntake(ctx context.Context, userID string, l *Log) error {
	if l.MedicationID == "" {
		return fmt.Errorf("medication_id is required")
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	l.UserID = userID

	m, err := s.meds.GetByID(ctx, l.MedicationID)
	if err == nil {
		if m.CareProfileID != nil {
			if err := s.profiles.Authorize(ctx, *m.CareProfileID, userID); err != nil {
				return err
			}
			if l.CareProfileID == "" {
				l.CareProfileID = *m.CareProfileID
			}
		}
		if m.InventoryCount != nil && *m.InventoryCount > 0 {
			count := *m.InventoryCount - 1
			m.InventoryCount = &count
			if err := s.meds.Update(ctx, m); err != nil {
				return err
			}
		}
	} else if !db.IsNotFound(err) {
		return err
	}

	return s.meds.CreateLog(ctx, l)
}

// LogsForMedication returns one medication's logs, ordered by timestamp.
// The date strings expand to the full [start-of-day, end-of-day] window.
func (s *Service) LogsForMedication(ctx context.Context, medicationID, userID, startDate, endDate string) ([]*Log, error) {
	if _, err := s.Get(ctx, medicationID, userID); err != nil {
		return nil, err
	}
	start, end, err := expandDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.meds.ListLogsByMedication(ctx, medicationID, start, end)
}

// LogsForProfile returns a care profile's logs across all medications.
func (s *Service) LogsForProfile(ctx context.Context, careProfileID, userID, startDate, endDate string) ([]*Log, error) {
	if err := s.profiles.Authorize(ctx, careProfileID, userID); err != nil {
		return nil, err
	}
	start, end, err := expandDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.meds.ListLogsByProfile(ctx, careProfileID, start, end)
}

// expandDateWindow widens "YYYY-MM-DD" bounds to cover the whole days.
func expandDateWindow(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		t, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date: %s", startDate)
		}
		start = &t
	}
	if endDate != "" {
		t, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date: %s", endDate)
		}
		eod := t.Add(24*time.Hour - time.Nanosecond)
		end = &eod
	}
	return start, end, nil
}

// Refills lists the profile's active medications whose inventory has fallen
// to or below the configured threshold.
func (s *Service) Refills(ctx context.Context, careProfileID, userID string) ([]*Medication, error) {
	meds, err := s.ListForProfile(ctx, careProfileID, userID, true)
	if err != nil {
		return nil, err
	}
	low := []*Medication{}
	for _, m := range meds {
		if m.InventoryCount != nil && *m.InventoryCount <= s.lowInventory {
			low = append(low, m)
		}
	}
	return low, nil
}
