package careprofile

import "time"

// EmergencyContact is the person to call about this care recipient.
type EmergencyContact struct {
	Name         string `bson:"name" json:"name"`
	Relationship string `bson:"relationship" json:"relationship"`
	PhoneNumber  string `bson:"phone_number" json:"phone_number"`
}

// CareProfile is one care recipient managed by a caregiver. Ownership is
// strict: only the creating user may read or write the profile.
type CareProfile struct {
	ID                string            `bson:"id" json:"id"`
	UserID            string            `bson:"user_id" json:"user_id"`
	FullName          string            `bson:"full_name" json:"full_name"`
	Relationship      string            `bson:"relationship" json:"relationship"`
	Condition         *string           `bson:"condition,omitempty" json:"condition,omitempty"`
	BirthDate         *string           `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Gender            *string           `bson:"gender,omitempty" json:"gender,omitempty"`
	BloodType         *string           `bson:"blood_type,omitempty" json:"blood_type,omitempty"`
	Allergies         []string          `bson:"allergies,omitempty" json:"allergies,omitempty"`
	EmergencyContact  *EmergencyContact `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	Notes             *string           `bson:"notes,omitempty" json:"notes,omitempty"`
	ProfilePictureURL *string           `bson:"profile_picture_url,omitempty" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable fields of a profile; nil means "leave as is".
type Update struct {
	FullName          *string           `json:"full_name,omitempty"`
	Relationship      *string           `json:"relationship,omitempty"`
	Condition         *string           `json:"condition,omitempty"`
	BirthDate         *string           `json:"birth_date,omitempty"`
	Gender            *string           `json:"gender,omitempty"`
	BloodType         *string           `json:"blood_type,omitempty"`
	Allergies         []string          `json:"allergies,omitempty"`
	EmergencyContact  *EmergencyContact `json:"emergency_contact,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
	ProfilePictureURL *string           `json:"profile_picture_url,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.FullName == nil && u.Relationship == nil && u.Condition == nil &&
		u.BirthDate == nil && u.Gender == nil && u.BloodType == nil &&
		u.Allergies == nil && u.EmergencyContact == nil && u.Notes == nil &&
		u.ProfilePictureURL == nil
}

// Apply copies the update's non-nil fields onto the profile.
func (u *Update) Apply(cp *CareProfile) {
	if u.FullName != nil {
		cp.FullName = *u.FullName
	}
	if u.Relationship != nil {
		cp.Relationship = *u.Relationship
	}
	if u.Condition != nil {
		cp.Condition = u.Condition
	}
	if u.BirthDate != nil {
		cp.BirthDate = u.BirthDate
	}
	if u.Gender != nil {
		cp.Gender = u.Gender
	}
	if u.BloodType != nil {
		cp.BloodType = u.BloodType
	}
	if u.Allergies != nil {
		cp.Allergies = u.Allergies
	}
	if u.EmergencyContact != nil {
		cp.EmergencyContact = u.EmergencyContact
	}
	if u.Notes != nil {
		cp.Notes = u.Notes
	}
	if u.ProfilePictureURL != nil {
		cp.ProfilePictureURL = u.ProfilePictureURL
	}
}
