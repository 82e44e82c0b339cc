package appointment

import "time"

// Appointment types and statuses the mobile client understands.
var (
	validTypes = map[string]bool{
		"check-up": true, "specialist": true, "telehealth": true, "other": true,
	}
	validStatuses = map[string]bool{
		"scheduled": true, "completed": true, "cancelled": true, "rescheduled": true,
	}
)

// Appointment is a scheduled visit, either for a care recipient (with a
// care_profile_id) or a personal one for the caregiver themselves.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	CareProfileID   *string   `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	Title           string    `bson:"title" json:"title"`
	Description     *string   `bson:"description,omitempty" json:"description,omitempty"`
	AppointmentTime time.Time `bson:"appointment_time" json:"appointment_time"`
	DurationMinutes *int      `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	Location        *string   `bson:"location,omitempty" json:"location,omitempty"`
	DoctorName      *string   `bson:"doctor_name,omitempty" json:"doctor_name,omitempty"`
	AppointmentType string    `bson:"appointment_type" json:"appointment_type"`
	Status          string    `bson:"status" json:"status"`
	Notes           *string   `bson:"notes,omitempty" json:"notes,omitempty"`
	ReminderSent    bool      `bson:"reminder_sent" json:"reminder_sent"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable appointment fields; nil means "leave as is".
type Update struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	AppointmentTime *time.Time `json:"appointment_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Location        *string    `json:"location,omitempty"`
	DoctorName      *string    `json:"doctor_name,omitempty"`
	AppointmentType *string    `json:"appointment_type,omitempty"`
	Status          *string    `json:"status,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	ReminderSent    *bool      `json:"reminder_sent,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.AppointmentTime == nil &&
		u.DurationMinutes == nil && u.Location == nil && u.DoctorName == nil &&
		u.AppointmentType == nil && u.Status == nil && u.Notes == nil &&
		u.ReminderSent == nil
}

// Apply copies the update's non-nil fields onto the appointment.
func (u *Update) Apply(a *Appointment) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Description != nil {
		a.Description = u.Description
	}
	if u.AppointmentTime != nil {
		a.AppointmentTime = *u.AppointmentTime
	}
	if u.DurationMinutes != nil {
		a.DurationMinutes = u.DurationMinutes
	}
	if u.Location != nil {
		a.Location = u.Location
	}
	if u.DoctorName != nil {
		a.DoctorName = u.DoctorName
	}
	if u.AppointmentType != nil {
		a.AppointmentType = *u.AppointmentType
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Notes != nil {
		a.Notes = u.Notes
	}
	if u.ReminderSent != nil {
		a.ReminderSent = *u.ReminderSent
	}
}
