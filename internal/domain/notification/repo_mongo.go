package notification

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

// NewMongoRepository returns a Repository backed by the notifications
// collection.
func NewMongoRepository(database *mongo.Database) Repository {
	return &mongoRepository{col: database.Collection("notifications")}
}

func (r *mongoRepository) Create(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, n)
	return err
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *mongoRepository) Update(ctx context.Context, n *Notification) error {
	n.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": n.ID}, bson.M{"$set": n})
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

// visibleFilter hides entries whose scheduled_time has not arrived yet.
func visibleFilter(userID string, now time.Time) bson.M {
	return bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"scheduled_time": bson.M{"$exists": false}},
			{"scheduled_time": nil},
			{"scheduled_time": bson.M{"$lte": now}},
		},
	}
}

func (r *mongoRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, now time.Time, limit int64) ([]*Notification, error) {
	filter := visibleFilter(userID, now)
	if unreadOnly {
		filter["is_read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	feed := []*Notification{}
	if err := cur.All(ctx, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (r *mongoRepository) CountUnread(ctx context.Context, userID string, now time.Time) (int64, error) {
	filter := visibleFilter(userID, now)
	filter["is_read"] = false
	return r.col.CountDocuments(ctx, filter)
}

func (r *mongoRepository) MarkAllRead(ctx context.Context, userID string, now time.Time) (int64, error) {
	filter := visibleFilter(userID, now)
	filter["is_read"] = false

	res, err := r.col.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
