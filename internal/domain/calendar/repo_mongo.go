package calendar

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

// NewMongoRepository returns a Repository backed by the calendar_events
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("calendar_events")}
}

func (r *mongoRepository) Create(ctx context.Context, e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *mongoRepository) Update(ctx context.Context, e *Event) error {
	e.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": e.ID}, bson.M{"$set": e})
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

// ListByDateRange relies on YYYY-MM-DD sorting lexicographically.
func (r *mongoRepository) ListByDateRange(ctx context.Context, careProfileID, startDate, endDate string) ([]*Event, error) {
	filter := bson.M{
		"care_profile_id": careProfileID,
		"date":            bson.M{"$gte": startDate, "$lte": endDate},
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []*Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
