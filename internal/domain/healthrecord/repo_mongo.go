package healthrecord

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

// NewMongoRepository returns a Repository backed by the health_records
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("health_records")}
}

func (r *mongoRepository) Create(ctx context.Context, rec *HealthRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*HealthRecord, error) {
	var rec HealthRecord
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoRepository) Update(ctx context.Context, rec *HealthRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": rec.ID}, bson.M{"$set": rec})
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

func (r *mongoRepository) ListByProfile(ctx context.Context, careProfileID, recordType string) ([]*HealthRecord, error) {
	filter := bson.M{"care_profile_id": careProfileID}
	if recordType != "" {
		filter["record_type"] = recordType
	}

	opts := options.Find().SetSort(bson.D{{Key: "date_recorded", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []*HealthRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
