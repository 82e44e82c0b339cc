package medication

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	meds map[string]*Medication
	logs map[string]*Log
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[string]*Medication), logs: make(map[string]*Log)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	med.ID = uuid.New().String()
	now := time.Now().UTC()
	med.CreatedAt = now
	med.UpdatedAt = now
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Medication, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *med
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.meds[med.ID]; !ok {
		return db.ErrNotFound
	}
	med.UpdatedAt = time.Now().UTC()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.meds[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.meds, id)
	return nil
}

func (m *mockRepo) ListByProfile(_ context.Context, careProfileID string, activeOnly bool) ([]*Medication, error) {
	var r []*Medication
	for _, med := range m.meds {
		if med.CareProfileID == nil || *med.CareProfileID != careProfileID {
			continue
		}
		if activeOnly && !med.IsActive {
			continue
		}
		copied := *med
		r = append(r, &copied)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r, nil
}

func (m *mockRepo) CreateLog(_ context.Context, l *Log) error {
	l.ID = uuid.New().String()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	m.logs[l.ID] = l
	return nil
}

func (m *mockRepo) ListLogsByMedication(_ context.Context, medicationID string, start, end *time.Time) ([]*Log, error) {
	return m.filterLogs(func(l *Log) bool { return l.MedicationID == medicationID }, start, end), nil
}

func (m *mockRepo) ListLogsByProfile(_ context.Context, careProfileID string, start, end *time.Time) ([]*Log, error) {
	return m.filterLogs(func(l *Log) bool { return l.CareProfileID == careProfileID }, start, end), nil
}

func (m *mockRepo) filterLogs(match func(*Log) bool, start, end *time.Time) []*Log {
	r := []*Log{}
	for _, l := range m.logs {
		if !match(l) {
			continue
		}
		if start != nil && l.Timestamp.Before(*start) {
			continue
		}
		if end != nil && l.Timestamp.After(*end) {
			continue
		}
		r = append(r, l)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Timestamp.Before(r[j].Timestamp) })
	return r
}

type mockAuthorizer struct {
	owners map[string]string
}

func (m *mockAuthorizer) Authorize(_ context.Context, careProfileID, userID string) error {
	owner, ok := m.owners[careProfileID]
	if !ok {
		return careprofile.ErrNotFound
	}
	if owner != userID {
		return careprofile.ErrForbidden
	}
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	authz := &mockAuthorizer{owners: map[string]string{"profile-1": "user-1"}}
	return NewService(repo, authz, 5), repo
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func dateOffset(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

// -- Schedule validation --

func TestCreateMedication_ScheduleValidation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name     string
		schedule Schedule
		wantErr  bool
	}{
		{"daily", Schedule{Time: "08:00", FrequencyType: "daily"}, false},
		{"as needed", Schedule{Time: "08:00", FrequencyType: "as_needed"}, false},
		{"unknown frequency", Schedule{Time: "08:00", FrequencyType: "hourly"}, true},
		{"missing time", Schedule{FrequencyType: "daily"}, true},
		{"specific days without days", Schedule{Time: "08:00", FrequencyType: "specific_days"}, true},
		{"specific days with days", Schedule{Time: "08:00", FrequencyType: "specific_days", DaysOfWeek: []string{"Monday"}}, false},
		{"interval without interval_days", Schedule{Time: "08:00", FrequencyType: "interval"}, true},
		{"interval with zero", Schedule{Time: "08:00", FrequencyType: "interval", IntervalDays: intPtr(0)}, true},
		{"interval valid", Schedule{Time: "08:00", FrequencyType: "interval", IntervalDays: intPtr(2)}, false},
	}

	for _, tc := range cases {
		m := &Medication{
			Name:      "Amlodipine",
			StartDate: dateOffset(0),
			Schedules: []Schedule{tc.schedule},
			IsActive:  true,
		}
		err := svc.Create(context.Background(), "user-1", m)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestCreateMedication_ForeignProfile(t *testing.T) {
	svc, _ := newTestService()
	m := &Medication{
		Name:          "Amlodipine",
		StartDate:     dateOffset(0),
		CareProfileID: strPtr("profile-1"),
		IsActive:      true,
	}
	if err := svc.Create(context.Background(), "intruder", m); !errors.Is(err, careprofile.ErrForbidden) {
		t.Fatalf("expected profile authorization failure, got %v", err)
	}
}

// -- Today matcher --

func todayMed(t *testing.T, svc *Service, name, startDate string, endDate *string, schedules ...Schedule) *Medication {
	t.Helper()
	m := &Medication{
		Name:          name,
		StartDate:     startDate,
		EndDate:       endDate,
		CareProfileID: strPtr("profile-1"),
		Schedules:     schedules,
		IsActive:      true,
	}
	if err := svc.Create(context.Background(), "user-1", m); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return m
}

func TestToday_DailyAlwaysMatches(t *testing.T) {
	svc, _ := newTestService()
	todayMed(t, svc, "Daily", dateOffset(-10), nil, Schedule{Time: "08:00", FrequencyType: "daily"})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(meds))
	}
}

func TestToday_AsNeededNeverMatches(t *testing.T) {
	svc, _ := newTestService()
	todayMed(t, svc, "PRN", dateOffset(-10), nil, Schedule{Time: "08:00", FrequencyType: "as_needed"})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 0 {
		t.Fatalf("as_needed should never match a calendar day, got %d", len(meds))
	}
}

func TestToday_SpecificDays(t *testing.T) {
	svc, _ := newTestService()
	weekday := time.Now().UTC().Weekday().String()
	other := time.Now().UTC().AddDate(0, 0, 1).Weekday().String()

	todayMed(t, svc, "Match", dateOffset(-10), nil,
		Schedule{Time: "08:00", FrequencyType: "specific_days", DaysOfWeek: []string{weekday}})
	todayMed(t, svc, "NoMatch", dateOffset(-10), nil,
		Schedule{Time: "08:00", FrequencyType: "specific_days", DaysOfWeek: []string{other}})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "Match" {
		t.Fatalf("expected only the medication listing today's weekday, got %d", len(meds))
	}
}

func TestToday_IntervalMatching(t *testing.T) {
	svc, _ := newTestService()
	// Started 4 days ago with a 2-day interval: 0, 2, 4 -> today matches.
	todayMed(t, svc, "EverySecondDay", dateOffset(-4), nil,
		Schedule{Time: "08:00", FrequencyType: "interval", IntervalDays: intPtr(2)})
	// Started 3 days ago with a 2-day interval: 0, 2, 4 -> today (delta 3) does not.
	todayMed(t, svc, "OffCycle", dateOffset(-3), nil,
		Schedule{Time: "09:00", FrequencyType: "interval", IntervalDays: intPtr(2)})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "EverySecondDay" {
		t.Fatalf("expected only the on-cycle interval medication, got %d", len(meds))
	}
}

func TestToday_DateWindow(t *testing.T) {
	svc, _ := newTestService()
	daily := Schedule{Time: "08:00", FrequencyType: "daily"}

	todayMed(t, svc, "NotStarted", dateOffset(3), nil, daily)
	todayMed(t, svc, "Ended", dateOffset(-30), strPtr(dateOffset(-1)), daily)
	todayMed(t, svc, "Current", dateOffset(-5), strPtr(dateOffset(5)), daily)
	todayMed(t, svc, "EndsToday", dateOffset(-5), strPtr(dateOffset(0)), daily)

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 2 {
		t.Fatalf("expected 2 medications inside their date window, got %d", len(meds))
	}
}

func TestToday_CarriesOnlyMatchingSchedules(t *testing.T) {
	svc, _ := newTestService()
	weekday := time.Now().UTC().Weekday().String()

	todayMed(t, svc, "Mixed", dateOffset(-10), nil,
		Schedule{Time: "20:00", FrequencyType: "daily"},
		Schedule{Time: "08:00", FrequencyType: "specific_days", DaysOfWeek: []string{weekday}},
		Schedule{Time: "12:00", FrequencyType: "as_needed"})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(meds))
	}
	if len(meds[0].Schedules) != 2 {
		t.Errorf("expected only the 2 matching schedules, got %d", len(meds[0].Schedules))
	}
}

func TestToday_SortedByEarliestScheduleTime(t *testing.T) {
	svc, _ := newTestService()
	todayMed(t, svc, "Evening", dateOffset(-1), nil, Schedule{Time: "20:00", FrequencyType: "daily"})
	todayMed(t, svc, "Morning", dateOffset(-1), nil, Schedule{Time: "07:30", FrequencyType: "daily"})
	todayMed(t, svc, "Noon", dateOffset(-1), nil, Schedule{Time: "12:00", FrequencyType: "daily"})

	meds, err := svc.TodayForProfile(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, m := range meds {
		names = append(names, m.Name)
	}
	want := []string{"Morning", "Noon", "Evening"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}

// -- Adherence logs and inventory --

func TestLogIntake_DecrementsInventory(t *testing.T) {
	svc, repo := newTestService()
	m := todayMed(t, svc, "Metformin", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})
	repo.meds[m.ID].InventoryCount = intPtr(2)

	if err := svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *repo.meds[m.ID].InventoryCount; got != 1 {
		t.Errorf("expected inventory 1, got %d", got)
	}

	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID})
	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID})
	if got := *repo.meds[m.ID].InventoryCount; got != 0 {
		t.Errorf("inventory must never go below zero, got %d", got)
	}
	if len(repo.logs) != 3 {
		t.Errorf("every intake should be logged, got %d logs", len(repo.logs))
	}
}

func TestLogIntake_UnknownMedicationStillRecorded(t *testing.T) {
	svc, repo := newTestService()

	l := &Log{MedicationID: "gone"}
	if err := svc.LogIntake(context.Background(), "user-1", l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatal("expected the log to be recorded despite the unknown medication")
	}
	if l.Timestamp.IsZero() {
		t.Error("expected a default timestamp")
	}
}

func TestLogIntake_FillsProfileFromMedication(t *testing.T) {
	svc, repo := newTestService()
	m := todayMed(t, svc, "Metformin", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})

	l := &Log{MedicationID: m.ID}
	if err := svc.LogIntake(context.Background(), "user-1", l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.CareProfileID != "profile-1" {
		t.Errorf("expected the medication's profile on the log, got %q", l.CareProfileID)
	}
	_ = repo
}

func TestLogsForMedication_UnknownMedication(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.LogsForMedication(context.Background(), "gone", "user-1", "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLogsForMedication_DateWindowCoversWholeDays(t *testing.T) {
	svc, repo := newTestService()
	m := todayMed(t, svc, "Metformin", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})

	today := time.Now().UTC()
	lateToday := time.Date(today.Year(), today.Month(), today.Day(), 23, 30, 0, 0, time.UTC)
	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID, Timestamp: lateToday})
	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID, Timestamp: lateToday.AddDate(0, 0, -3)})

	day := today.Format(dateLayout)
	logs, err := svc.LogsForMedication(context.Background(), m.ID, "user-1", day, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected the end bound to cover the whole day, got %d logs", len(logs))
	}
	_ = repo
}

func TestLogsForProfile(t *testing.T) {
	svc, _ := newTestService()
	m := todayMed(t, svc, "Metformin", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})

	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID})
	svc.LogIntake(context.Background(), "user-1", &Log{MedicationID: m.ID})

	logs, err := svc.LogsForProfile(context.Background(), "profile-1", "user-1", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 logs for the profile, got %d", len(logs))
	}
}

// -- Refills --

func TestRefills_Threshold(t *testing.T) {
	svc, repo := newTestService()
	low := todayMed(t, svc, "Low", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})
	ok := todayMed(t, svc, "Stocked", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})
	noCount := todayMed(t, svc, "Untracked", dateOffset(-1), nil, Schedule{Time: "08:00", FrequencyType: "daily"})

	repo.meds[low.ID].InventoryCount = intPtr(5)
	repo.meds[ok.ID].InventoryCount = intPtr(30)
	_ = noCount

	meds, err := svc.Refills(context.Background(), "profile-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "Low" {
		t.Fatalf("expected only the low-inventory medication, got %d", len(meds))
	}
}

// -- List --

func TestListForProfile_SortedByName_ActiveFilter(t *testing.T) {
	svc, repo := newTestService()
	todayMed(t, svc, "Zinc", dateOffset(-1), nil)
	todayMed(t, svc, "Aspirin", dateOffset(-1), nil)
	inactive := todayMed(t, svc, "Old", dateOffset(-1), nil)
	repo.meds[inactive.ID].IsActive = false

	all, err := svc.ListForProfile(context.Background(), "profile-1", "user-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 medications, got %d", len(all))
	}
	if all[0].Name != "Aspirin" {
		t.Error("expected results sorted by name")
	}

	active, err := svc.ListForProfile(context.Background(), "profile-1", "user-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active medications, got %d", len(active))
	}
}

func TestUpdateMedication_EmptyReturnsUnchanged(t *testing.T) {
	svc, _ := newTestService()
	m := todayMed(t, svc, "Metformin", dateOffset(-1), nil)

	got, err := svc.Update(context.Background(), m.ID, "user-1", &Update{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Metformin" {
		t.Error("expected the unchanged record")
	}
}
