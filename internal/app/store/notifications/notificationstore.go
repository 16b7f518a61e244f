// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homesync/homesync/internal/domain/models"
)

// ErrNotFound is returned when a notification does not exist or belongs
// to another user.
var ErrNotFound = errors.New("notification not found")

// listLimit caps the notification feed; older entries age out of view.
const listLimit = 100

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

func (s *Store) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.c.InsertOne(ctx, n)
	return err
}

// ListByUser returns the user's notifications, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listLimit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags one notification as read. The user filter keeps one
// user from acknowledging another's notifications.
func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": notificationID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUnread returns the user's unread notification count.
func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
}
