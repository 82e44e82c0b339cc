package healthrecord

import "time"

// Record types. The measurement types double as vital-sign types; allergy,
// vaccination and lab_result are document-style records.
var validRecordTypes = map[string]bool{
	"blood_pressure":    true,
	"glucose_level":     true,
	"heart_rate":        true,
	"temperature":       true,
	"weight":            true,
	"height":            true,
	"bmi":               true,
	"oxygen_saturation": true,
	"allergy":           true,
	"vaccination":       true,
	"lab_result":        true,
}

// ValidRecordType reports whether t is a known record type.
func ValidRecordType(t string) bool {
	return validRecordTypes[t]
}

// HealthRecord is one entry in a care recipient's health history. Value is
// deliberately loose: a number (weight, heart rate), a string (allergy
// name), or an object such as {"systolic": 120, "diastolic": 80}.
type HealthRecord struct {
	ID            string      `bson:"id" json:"id"`
	UserID        string      `bson:"user_id" json:"user_id"`
	CareProfileID *string     `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	RecordType    string      `bson:"record_type" json:"record_type"`
	DateRecorded  time.Time   `bson:"date_recorded" json:"date_recorded"`
	Value         interface{} `bson:"value" json:"value"`
	Unit          *string     `bson:"unit,omitempty" json:"unit,omitempty"`
	Notes         *string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Source        *string     `bson:"source,omitempty" json:"source,omitempty"`
	DocumentURL   *string     `bson:"document_url,omitempty" json:"document_url,omitempty"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable record fields; nil means "leave as is".
type Update struct {
	RecordType   *string     `json:"record_type,omitempty"`
	DateRecorded *time.Time  `json:"date_recorded,omitempty"`
	Value        interface{} `json:"value,omitempty"`
	Unit         *string     `json:"unit,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
	Source       *string     `json:"source,omitempty"`
	DocumentURL  *string     `json:"document_url,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.RecordType == nil && u.DateRecorded == nil && u.Value == nil &&
		u.Unit == nil && u.Notes == nil && u.Source == nil && u.DocumentURL == nil
}

// Apply copies the update's non-nil fields onto the record.
func (u *Update) Apply(r *HealthRecord) {
	if u.RecordType != nil {
		r.RecordType = *u.RecordType
	}
	if u.DateRecorded != nil {
		r.DateRecorded = *u.DateRecorded
	}
	if u.Value != nil {
		r.Value = u.Value
	}
	if u.Unit != nil {
		r.Unit = u.Unit
	}
	if u.Notes != nil {
		r.Notes = u.Notes
	}
	if u.Source != nil {
		r.Source = u.Source
	}
	if u.DocumentURL != nil {
		r.DocumentURL = u.DocumentURL
	}
}
