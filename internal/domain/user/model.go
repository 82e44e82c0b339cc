package user

import "time"

// EmergencyContact is the person to call about this user.
type EmergencyContact struct {
	Name         string `bson:"name" json:"name"`
	Relationship string `bson:"relationship" json:"relationship"`
	PhoneNumber  string `bson:"phone_number" json:"phone_number"`
}

// User is a caregiver account. The document ID is the identity provider's
// UID, so the verified token subject addresses the document directly.
// Passwords live with the provider and are never stored here.
type User struct {
	ID                string            `bson:"id" json:"id"`
	Email             string            `bson:"email" json:"email"`
	FullName          string            `bson:"full_name" json:"full_name"`
	PhoneNumber       *string           `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	BirthDate         *string           `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Gender            *string           `bson:"gender,omitempty" json:"gender,omitempty"`
	Address           *string           `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact  *EmergencyContact `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	ProfilePictureURL *string           `bson:"profile_picture_url,omitempty" json:"profile_picture_url,omitempty"`
	IsCaregiver       bool              `bson:"is_caregiver" json:"is_caregiver"`
	IsVerified        bool              `bson:"is_verified" json:"is_verified"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updated_at"`
}

// RegisterRequest is the registration payload. The password is forwarded to
// the identity provider only.
type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
	IsCaregiver bool    `json:"is_caregiver"`
}

// LoginRequest asks the service to confirm the account exists; the mobile
// client signs in against the provider directly to obtain its ID token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update carries the mutable profile fields; nil means "leave as is".
type Update struct {
	FullName          *string           `json:"full_name,omitempty"`
	PhoneNumber       *string           `json:"phone_number,omitempty"`
	BirthDate         *string           `json:"birth_date,omitempty"`
	Gender            *string           `json:"gender,omitempty"`
	Address           *string           `json:"address,omitempty"`
	EmergencyContact  *EmergencyContact `json:"emergency_contact,omitempty"`
	ProfilePictureURL *string           `json:"profile_picture_url,omitempty"`
	IsCaregiver       *bool             `json:"is_caregiver,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.FullName == nil && u.PhoneNumber == nil && u.BirthDate == nil &&
		u.Gender == nil && u.Address == nil && u.EmergencyContact == nil &&
		u.ProfilePictureURL == nil && u.IsCaregiver == nil
}

// Apply copies the update's non-nil fields onto the user.
func (u *Update) Apply(usr *User) {
	if u.FullName != nil {
		usr.FullName = *u.FullName
	}
	if u.PhoneNumber != nil {
		usr.PhoneNumber = u.PhoneNumber
	}
	if u.BirthDate != nil {
		usr.BirthDate = u.BirthDate
	}
	if u.Gender != nil {
		usr.Gender = u.Gender
	}
	if u.Address != nil {
		usr.Address = u.Address
	}
	if u.EmergencyContact != nil {
		usr.EmergencyContact = u.EmergencyContact
	}
	if u.ProfilePictureURL != nil {
		usr.ProfilePictureURL = u.ProfilePictureURL
	}
	if u.IsCaregiver != nil {
		usr.IsCaregiver = *u.IsCaregiver
	}
}
