package reminder

import "time"

// Reminder types.
var validReminderTypes = map[string]bool{
	"medication":  true,
	"appointment": true,
	"task":        true,
	"other":       true,
}

// ValidReminderType reports whether t is a known reminder type.
func ValidReminderType(t string) bool {
	return validReminderTypes[t]
}

// Reminder is a scheduled nudge, either for a care profile or for the
// caller directly. RelatedItemID optionally links back to the medication,
// appointment or task it was created for.
type Reminder struct {
	ID            string    `bson:"id" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	CareProfileID *string   `bson:"care_profile_id,omitempty" json:"care_profile_id,omitempty"`
	ReminderType  string    `bson:"reminder_type" json:"reminder_type"`
	Title         string    `bson:"title" json:"title"`
	Message       *string   `bson:"message,omitempty" json:"message,omitempty"`
	ReminderTime  time.Time `bson:"reminder_time" json:"reminder_time"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	RelatedItemID *string   `bson:"related_item_id,omitempty" json:"related_item_id,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable reminder fields; nil means "leave as is".
type Update struct {
	ReminderType  *string    `json:"reminder_type,omitempty"`
	Title         *string    `json:"title,omitempty"`
	Message       *string    `json:"message,omitempty"`
	ReminderTime  *time.Time `json:"reminder_time,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	RelatedItemID *string    `json:"related_item_id,omitempty"`
}

func (u *Update) IsEmpty() bool {
	return u.ReminderType == nil && u.Title == nil && u.Message == nil &&
		u.ReminderTime == nil && u.IsActive == nil && u.RelatedItemID == nil
}

// Apply copies the update's non-nil fields onto the reminder.
func (u *Update) Apply(r *Reminder) {
	if u.ReminderType != nil {
		r.ReminderType = *u.ReminderType
	}
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Message != nil {
		r.Message = u.Message
	}
	if u.ReminderTime != nil {
		r.ReminderTime = *u.ReminderTime
	}
	if u.IsActive != nil {
		r.IsActive = *u.IsActive
	}
	if u.RelatedItemID != nil {
		r.RelatedItemID = u.RelatedItemID
	}
}
