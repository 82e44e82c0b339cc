package subscription

import "time"

// Tier identifies the subscription plan.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Valid reports whether the tier is one the service sells.
func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// Features are the plan entitlements enforced across the service.
type Features struct {
	MaxCareProfiles         int  `bson:"max_care_profiles" json:"max_care_profiles"`
	MaxTasksPerDay          int  `bson:"max_tasks_per_day" json:"max_tasks_per_day"`
	MaxPillRemindersPerDay  int  `bson:"max_pill_reminders_per_day" json:"max_pill_reminders_per_day"`
	CanRecordMultipleVitals bool `bson:"can_record_multiple_vitals" json:"can_record_multiple_vitals"`
	HasEnhancedCalendar     bool `bson:"has_enhanced_calendar" json:"has_enhanced_calendar"`
	HasSmartReminders       bool `bson:"has_smart_reminders" json:"has_smart_reminders"`
}

// DefaultFeatures returns the entitlements a tier grants out of the box.
func DefaultFeatures(tier Tier) Features {
	if tier == TierPremium {
		return Features{
			MaxCareProfiles:         5,
			MaxTasksPerDay:          999,
			MaxPillRemindersPerDay:  999,
			CanRecordMultipleVitals: true,
			HasEnhancedCalendar:     true,
			HasSmartReminders:       true,
		}
	}
	return Features{
		MaxCareProfiles:        1,
		MaxTasksPerDay:         2,
		MaxPillRemindersPerDay: 1,
	}
}

// Subscription is one user's plan. A user has at most one.
type Subscription struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Tier      Tier       `bson:"tier" json:"tier"`
	Features  Features   `bson:"features" json:"features"`
	StartDate *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	IsActive  bool       `bson:"is_active" json:"is_active"`
	AutoRenew bool       `bson:"auto_renew" json:"auto_renew"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Update carries the mutable subscription fields; nil means "leave as is".
type Update struct {
	Tier      *Tier      `json:"tier,omitempty"`
	Features  *Features  `json:"features,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
	AutoRenew *bool      `json:"auto_renew,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.Tier == nil && u.Features == nil && u.StartDate == nil &&
		u.EndDate == nil && u.IsActive == nil && u.AutoRenew == nil
}
