package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionIndexes describes the indexes one collection needs.
type CollectionIndexes struct {
	Collection string
	Models     []mongo.IndexModel
}

func uniqueID() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}
}

// Catalog returns the index catalog for every collection the service uses.
// Documents are keyed by an application-level "id" field; owner and sort
// fields get secondary indexes so the per-profile list queries do not scan.
func Catalog() []CollectionIndexes {
	return []CollectionIndexes{
		{
			Collection: "users",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_email")},
			},
		},
		{
			Collection: "care_profiles",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetName("by_owner")},
			},
		},
		{
			Collection: "appointments",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "appointment_time", Value: 1}}, Options: options.Index().SetName("by_owner_time")},
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "appointment_time", Value: 1}}, Options: options.Index().SetName("by_profile_time")},
			},
		},
		{
			Collection: "medications",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "is_active", Value: 1}}, Options: options.Index().SetName("by_profile_active")},
			},
		},
		{
			Collection: "medication_logs",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "medication_id", Value: 1}, {Key: "timestamp", Value: 1}}, Options: options.Index().SetName("by_medication_time")},
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "timestamp", Value: 1}}, Options: options.Index().SetName("by_profile_time")},
			},
		},
		{
			Collection: "health_records",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "record_type", Value: 1}}, Options: options.Index().SetName("by_profile_type")},
			},
		},
		{
			Collection: "vital_signs",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("by_profile_newest")},
			},
		},
		{
			Collection: "calendar_events",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetName("by_profile_date")},
			},
		},
		{
			Collection: "reminders",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "care_profile_id", Value: 1}, {Key: "reminder_time", Value: 1}}, Options: options.Index().SetName("by_profile_time")},
			},
		},
		{
			Collection: "subscriptions",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("one_per_user")},
			},
		},
		{
			Collection: "notifications",
			Models: []mongo.IndexModel{
				uniqueID(),
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("by_user_newest")},
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}}, Options: options.Index().SetName("by_user_unread")},
			},
		},
	}
}

// EnsureIndexes creates every index in the catalog. Creation is idempotent;
// existing indexes with the same name are left untouched.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, ci := range Catalog() {
		if len(ci.Models) == 0 {
			continue
		}
		if _, err := database.Collection(ci.Collection).Indexes().CreateMany(ctx, ci.Models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", ci.Collection, err)
		}
	}
	return nil
}
