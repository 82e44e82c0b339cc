package calendar

import "time"

// Event types and the palette the mobile client renders them with.
const (
	TypeAppointment = "appointment"
	TypeMedication  = "medication"
	TypeTask        = "task"
	TypeHealthCheck = "health_check"
)

var eventColors = map[string]string{
	TypeAppointment: "#8A7FE0",
	TypeMedication:  "#00A3B4",
	TypeTask:        "#FF6B6B",
	TypeHealthCheck: "#4CAF50",
}

// ColorFor returns the default color code for an event type.
func ColorFor(eventType string) string {
	return eventColors[eventType]
}

// ValidEventType reports whether t is a known event type.
func ValidEventType(t string) bool {
	_, ok := eventColors[t]
	return ok
}

// Event statuses.
var validStatuses = map[string]bool{
	"pending":   true,
	"completed": true,
	"missed":    true,
	"skipped":   true,
	"taken":     true,
}

// ValidStatus reports whether s is a known event status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// Event is one entry on a care profile's calendar. Date is a YYYY-MM-DD
// string and Time an optional HH:MM string, both in the profile's local day.
type Event struct {
	ID            string                 `bson:"id" json:"id"`
	UserID        string                 `bson:"user_id" json:"user_id"`
	CareProfileID string                 `bson:"care_profile_id" json:"care_profile_id"`
	Title         string                 `bson:"title" json:"title"`
	EventType     string                 `bson:"event_type" json:"event_type"`
	Date          string                 `bson:"date" json:"date"`
	Time          *string                `bson:"time,omitempty" json:"time,omitempty"`
	Status        string                 `bson:"status" json:"status"`
	Details       map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	ColorCode     *string                `bson:"color_code,omitempty" json:"color_code,omitempty"`
	Reminder      bool                   `bson:"reminder" json:"reminder"`
	ReminderTime  int                    `bson:"reminder_time" json:"reminder_time"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `bson:"updated_at" json:"updated_at"`
}

// Day groups a date's events, sorted by time of day.
type Day struct {
	Date   string   `json:"date"`
	Events []*Event `json:"events"`
}

// Month holds a Day for every date of the month, keyed by ISO date.
type Month struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Days  map[string]*Day `json:"days"`
}

// Update carries the mutable event fields; nil means "leave as is".
type Update struct {
	Title        *string                 `json:"title,omitempty"`
	EventType    *string                 `json:"event_type,omitempty"`
	Date         *string                 `json:"date,omitempty"`
	Time         *string                 `json:"time,omitempty"`
	Status       *string                 `json:"status,omitempty"`
	Details      *map[string]interface{} `json:"details,omitempty"`
	ColorCode    *string                 `json:"color_code,omitempty"`
	Reminder     *bool                   `json:"reminder,omitempty"`
	ReminderTime *int                    `json:"reminder_time,omitempty"`
}

func (u *Update) IsEmpty() bool {
	return u.Title == nil && u.EventType == nil && u.Date == nil && u.Time == nil &&
		u.Status == nil && u.Details == nil && u.ColorCode == nil &&
		u.Reminder == nil && u.ReminderTime == nil
}

// Apply copies the update's non-nil fields onto the event.
func (u *Update) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.EventType != nil {
		e.EventType = *u.EventType
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Time != nil {
		e.Time = u.Time
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.Details != nil {
		e.Details = *u.Details
	}
	if u.ColorCode != nil {
		e.ColorCode = u.ColorCode
	}
	if u.Reminder != nil {
		e.Reminder = *u.Reminder
	}
	if u.ReminderTime != nil {
		e.ReminderTime = *u.ReminderTime
	}
}
