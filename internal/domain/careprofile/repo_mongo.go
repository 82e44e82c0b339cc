package careprofile

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

// NewMongoRepository returns a Repository backed by the care_profiles
// collection. Documents are keyed by the application-level "id" field.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("care_profiles")}
}

func (r *mongoRepository) Create(ctx context.Context, cp *CareProfile) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, cp)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*CareProfile, error) {
	var cp CareProfile
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&cp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *mongoRepository) Update(ctx context.Context, cp *CareProfile) error {
	cp.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": cp.ID}, bson.M{"$set": cp})
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

func (r *mongoRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*CareProfile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := []*CareProfile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *mongoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": userID})
}
