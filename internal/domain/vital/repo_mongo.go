package vital

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

// NewMongoRepository returns a Repository backed by the vital_signs
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("vital_signs")}
}

func (r *mongoRepository) Create(ctx context.Context, v *VitalSign) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*VitalSign, error) {
	var v VitalSign
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *mongoRepository) Update(ctx context.Context, v *VitalSign) error {
	v.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": v.ID}, bson.M{"$set": v})
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

func (r *mongoRepository) ListByProfile(ctx context.Context, careProfileID, vitalType string, start, end *time.Time) ([]*VitalSign, error) {
	filter := bson.M{"care_profile_id": careProfileID}
	if vitalType != "" {
		filter["record_type"] = vitalType
	}
	if start != nil || end != nil {
		window := bson.M{}
		if start != nil {
			window["$gte"] = *start
		}
		if end != nil {
			window["$lte"] = *end
		}
		filter["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	vitals := []*VitalSign{}
	if err := cur.All(ctx, &vitals); err != nil {
		return nil, err
	}
	return vitals, nil
}
