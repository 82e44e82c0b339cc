package medication

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
	meds *mongo.Collection
	logs *mongo.Collection
}

// NewMongoRepository returns a Repository over the medications and
// medication_logs collections.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{
		meds: database.Collection("medications"),
		logs: database.Collection("medication_logs"),
	}
}

func (r *mongoRepository) Create(ctx context.Context, m *Medication) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := r.meds.InsertOne(ctx, m)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Medication, error) {
	var m Medication
	err := r.meds.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoRepository) Update(ctx context.Context, m *Medication) error {
	m.UpdatedAt = time.Now().UTC()

	res, err := r.meds.UpdateOne(ctx, bson.M{"id": m.ID}, bson.M{"$set": m})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.meds.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *mongoRepository) ListByProfile(ctx context.Context, careProfileID string, activeOnly bool) ([]*Medication, error) {
	filter := bson.M{"care_profile_id": careProfileID}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.meds.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	meds := []*Medication{}
	if err := cur.All(ctx, &meds); err != nil {
		return nil, err
	}
	return meds, nil
}

func (r *mongoRepository) CreateLog(ctx context.Context, l *Log) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.logs.InsertOne(ctx, l)
	return err
}

func (r *mongoRepository) ListLogsByMedication(ctx context.Context, medicationID string, start, end *time.Time) ([]*Log, error) {
	return r.findLogs(ctx, bson.M{"medication_id": medicationID}, start, end)
}

func (r *mongoRepository) ListLogsByProfile(ctx context.Context, careProfileID string, start, end *time.Time) ([]*Log, error) {
	return r.findLogs(ctx, bson.M{"care_profile_id": careProfileID}, start, end)
}

func (r *mongoRepository) findLogs(ctx context.Context, filter bson.M, start, end *time.Time) ([]*Log, error) {
	window := bson.M{}
	if start != nil {
		window["$gte"] = *start
	}
	if end != nil {
		window["$lte"] = *end
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.logs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	logs := []*Log{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
