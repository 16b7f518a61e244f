// internal/app/store/users/userstore.go
package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homesync/homesync/internal/app/membership"
	"github.com/homesync/homesync/internal/domain/models"
)

// Store is the read-only user directory. Account writes happen upstream;
// this service only resolves profiles and personal share codes.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, membership.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByShareCode(ctx context.Context, code string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"share_code": code}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, membership.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) ShareCodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"share_code": code})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
