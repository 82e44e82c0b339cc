package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
)

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository returns a Repository backed by the subscriptions
// collection. The unique index on user_id enforces one plan per user.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("subscriptions")}
}

func (r *mongoRepository) Create(ctx context.Context, sub *Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, sub)
	return err
}

func (r *mongoRepository) GetByUser(ctx context.Context, userID string) (*Subscription, error) {
	var sub Subscription
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *mongoRepository) Update(ctx context.Context, sub *Subscription) error {
	sub.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": sub.ID}, bson.M{"$set": sub})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return db.ErrNotFound
	}
	return nil
}
