package notification

import "time"

// Notification types.
var validTypes = map[string]bool{
	"appointment_reminder": true,
	"medication_reminder":  true,
	"health_alert":         true,
	"new_message":          true,
	"care_team_update":     true,
	"subscription_update":  true,
	"general_information":  true,
	"emergency_alert":      true,
	"other":                true,
}

// ValidType reports whether t is a known notification type.
func ValidType(t string) bool {
	return validTypes[t]
}

// Notification is one entry in a user's feed. ScheduledTime, when set in
// the future, keeps the entry out of the feed until it is due; the mobile
// client polls and schedules local notifications itself.
type Notification struct {
	ID               string                 `bson:"id" json:"id"`
	UserID           string                 `bson:"user_id" json:"user_id"`
	Title            string                 `bson:"title" json:"title"`
	Body             string                 `bson:"body" json:"body"`
	NotificationType string                 `bson:"notification_type" json:"notification_type"`
	Timestamp        time.Time              `bson:"timestamp" json:"timestamp"`
	IsRead           bool                   `bson:"is_read" json:"is_read"`
	RelatedItemID    *string                `bson:"related_item_id,omitempty" json:"related_item_id,omitempty"`
	RelatedItemType  *string                `bson:"related_item_type,omitempty" json:"related_item_type,omitempty"`
	DeepLink         *string                `bson:"deep_link,omitempty" json:"deep_link,omitempty"`
	Data             map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	ScheduledTime    *time.Time             `bson:"scheduled_time,omitempty" json:"scheduled_time,omitempty"`
	CreatedAt        time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time              `bson:"updated_at" json:"updated_at"`
}
