package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository returns a Repository backed by the reminders
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("reminders")}
}

func (r *mongoRepository) Create(ctx context.Context, rem *Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rem.CreatedAt = now
	rem.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, rem)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Reminder, error) {
	var rem Reminder
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&rem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *mongoRepository) Update(ctx context.Context, rem *Reminder) error {
	rem.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": rem.ID}, bson.M{"$set": rem})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *mongoRepository) ListByProfile(ctx context.Context, careProfileID string, activeOnly bool, reminderType string) ([]*Reminder, error) {
	filter := bson.M{"care_profile_id": careProfileID}
	if activeOnly {
		filter["is_active"] = true
	}
	if reminderType != "" {
		filter["reminder_type"] = reminderType
	}

	opts := options.Find().SetSort(bson.D{{Key: "reminder_time", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reminders := []*Reminder{}
	if err := cur.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *mongoRepository) CountByTypeForWindow(ctx context.Context, userID, reminderType string, start, end time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"user_id":       userID,
		"reminder_type": reminderType,
		"reminder_time": bson.M{"$gte": start, "$lt": end},
	})
}
