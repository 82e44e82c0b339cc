package vital

import "time"

// Vital-sign measurement types. Document-style record types (allergies,
// vaccinations, lab results) live in the health records collection instead.
var validVitalTypes = map[string]bool{
	"blood_pressure":    true,
	"glucose_level":     true,
	"heart_rate":        true,
	"temperature":       true,
	"weight":            true,
	"height":            true,
	"bmi":               true,
	"oxygen_saturation": true,
}

// ValidVitalType reports whether t is a measurable vital-sign type.
func ValidVitalType(t string) bool {
	return validVitalTypes[t]
}

// VitalSign is a single timestamped measurement. Value mirrors the health
// record convention: a number for scalar readings, an object for compound
// ones such as blood pressure.
type VitalSign struct {
	ID            string      `bson:"id" json:"id"`
	UserID        string      `bson:"user_id" json:"user_id"`
	CareProfileID *string     `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	RecordType    string      `bson:"record_type" json:"record_type"`
	Value         interface{} `bson:"value" json:"value"`
	Unit          *string     `bson:"unit,omitempty" json:"unit,omitempty"`
	Notes         *string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp     time.Time   `bson:"timestamp" json:"timestamp"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable measurement fields; nil means "leave as is".
type Update struct {
	RecordType *string     `json:"record_type,omitempty"`
	Value      interface{} `json:"value,omitempty"`
	Unit       *string     `json:"unit,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
	Timestamp  *time.Time  `json:"timestamp,omitempty"`
}

func (u *Update) IsEmpty() bool {
	return u.RecordType == nil && u.Value == nil && u.Unit == nil &&
		u.Notes == nil && u.Timestamp == nil
}

// Apply copies the update's non-nil fields onto the measurement.
func (u *Update) Apply(v *VitalSign) {
	if u.RecordType != nil {
		v.RecordType = *u.RecordType
	}
	if u.Value != nil {
		v.Value = u.Value
	}
	if u.Unit != nil {
		v.Unit = u.Unit
	}
	if u.Notes != nil {
		v.Notes = u.Notes
	}
	if u.Timestamp != nil {
		v.Timestamp = *u.Timestamp
	}
}
