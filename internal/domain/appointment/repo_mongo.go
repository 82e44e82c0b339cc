package appointment

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

// NewMongoRepository returns a Repository backed by the appointments
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("appointments")}
}

func (r *mongoRepository) Create(ctx context.Context, a *Appointment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *mongoRepository) Update(ctx context.Context, a *Appointment) error {
	a.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": a.ID}, bson.M{"$set": a})
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

func (r *mongoRepository) ListByProfile(ctx context.Context, careProfileID string, start, end *time.Time) ([]*Appointment, error) {
	filter := bson.M{"care_profile_id": careProfileID}
	window := bson.M{}
	if start != nil {
		window["$gte"] = *start
	}
	if end != nil {
		window["$lte"] = *end
	}
	if len(window) > 0 {
		filter["appointment_time"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "appointment_time", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	appointments := []*Appointment{}
	if err := cur.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
