package medication

import "time"

// Schedule frequency types.
const (
	FrequencyDaily        = "daily"
	FrequencySpecificDays = "specific_days"
	FrequencyInterval     = "interval"
	FrequencyAsNeeded     = "as_needed"
)

var validFrequencies = map[string]bool{
	FrequencyDaily: true, FrequencySpecificDays: true,
	FrequencyInterval: true, FrequencyAsNeeded: true,
}

// Schedule is one dosing slot. Time is a wall-clock "HH:MM" string; for
// specific_days the weekday names ("Monday", ...) list the days, for
// interval the dose recurs every interval_days counted from the
// medication's start_date.
type Schedule struct {
	Time          string   `bson:"time" json:"time"`
	FrequencyType string   `bson:"frequency_type" json:"frequency_type"`
	DaysOfWeek    []string `bson:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	IntervalDays  *int     `bson:"interval_days,omitempty" json:"interval_days,omitempty"`
}

// Medication is a prescription tracked for a care recipient (or for the
// caregiver themselves when no care_profile_id is set). Dates are calendar
// "YYYY-MM-DD" strings, naive of time zone, matching what the mobile client
// sends.
type Medication struct {
	ID                 string     `bson:"id" json:"id"`
	UserID             string     `bson:"user_id" json:"user_id"`
	CareProfileID      *string    `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	Name               string     `bson:"name" json:"name"`
	Dosage             *string    `bson:"dosage,omitempty" json:"dosage,omitempty"`
	DosageUnit         *string    `bson:"dosage_unit,omitempty" json:"dosage_unit,omitempty"`
	Instructions       *string    `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Schedules          []Schedule `bson:"schedules" json:"schedules"`
	StartDate          string     `bson:"start_date" json:"start_date"`
	EndDate            *string    `bson:"end_date,omitempty" json:"end_date,omitempty"`
	PrescribingDoctor  *string    `bson:"prescribing_doctor,omitempty" json:"prescribing_doctor,omitempty"`
	Pharmacy           *string    `bson:"pharmacy,omitempty" json:"pharmacy,omitempty"`
	Notes              *string    `bson:"notes,omitempty" json:"notes,omitempty"`
	InventoryCount     *int       `bson:"inventory_count,omitempty" json:"inventory_count,omitempty"`
	RefillReminderDate *string    `bson:"refill_reminder_date,omitempty" json:"refill_reminder_date,omitempty"`
	IsActive           bool       `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// Log is one recorded intake.
type Log struct {
	ID            string    `bson:"id" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	MedicationID  string    `bson:"medication_id" json:"medication_id"`
	CareProfileID string    `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
	Quantity      *int      `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Notes         *string   `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable medication fields; nil means "leave as is".
type Update struct {
	Name               *string     `json:"name,omitempty"`
	Dosage             *string     `json:"dosage,omitempty"`
	DosageUnit         *string     `json:"dosage_unit,omitempty"`
	Instructions       *string     `json:"instructions,omitempty"`
	Schedules          *[]Schedule `json:"schedules,omitempty"`
	StartDate          *string     `json:"start_date,omitempty"`
	EndDate            *string     `json:"end_date,omitempty"`
	PrescribingDoctor  *string     `json:"prescribing_doctor,omitempty"`
	Pharmacy           *string     `json:"pharmacy,omitempty"`
	Notes              *string     `json:"notes,omitempty"`
	InventoryCount     *int        `json:"inventory_count,omitempty"`
	RefillReminderDate *string     `json:"refill_reminder_date,omitempty"`
	IsActive           *bool       `json:"is_active,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.Name == nil && u.Dosage == nil && u.DosageUnit == nil &&
		u.Instructions == nil && u.Schedules == nil && u.StartDate == nil &&
		u.EndDate == nil && u.PrescribingDoctor == nil && u.Pharmacy == nil &&
		u.Notes == nil && u.InventoryCount == nil && u.RefillReminderDate == nil &&
		u.IsActive == nil
}

// Apply copies the update's non-nil fields onto the medication.
func (u *Update) Apply(m *Medication) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Dosage != nil {
		m.Dosage = u.Dosage
	}
	if u.DosageUnit != nil {
		m.DosageUnit = u.DosageUnit
	}
	if u.Instructions != nil {
		m.Instructions = u.Instructions
	}
	if u.Schedules != nil {
		m.Schedules = *u.Schedules
	}
	if u.StartDate != nil {
		m.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		m.EndDate = u.EndDate
	}
	if u.PrescribingDoctor != nil {
		m.PrescribingDoctor = u.PrescribingDoctor
	}
	if u.Pharmacy != nil {
		m.Pharmacy = u.Pharmacy
	}
	if u.Notes != nil {
		m.Notes = u.Notes
	}
	if u.InventoryCount != nil {
		m.InventoryCount = u.InventoryCount
	}
	if u.RefillReminderDate != nil {
		m.RefillReminderDate = u.RefillReminderDate
	}
	if u.IsActive != nil {
		m.IsActive = *u.IsActive
	}
}
