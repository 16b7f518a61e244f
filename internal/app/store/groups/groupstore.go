// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homesync/homesync/internal/app/membership"
	"github.com/homesync/homesync/internal/domain/models"
)

// Store is the Mongo-backed membership store. The compare-and-swap
// contract is implemented with version-filtered replaces; there is no
// unconditional overwrite path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) ReadGroup(ctx context.Context, groupID string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, membership.ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) ReadGroupByShareCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"share_code": code}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, membership.ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) InsertGroup(ctx context.Context, g models.Group) error {
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return membership.ErrDuplicateShareCode
		}
		return err
	}
	return nil
}

// CompareAndSwapGroup replaces the record only if the stored version
// still matches. A non-matching replace is classified as not-found or
// conflict with a follow-up existence check.
func (s *Store) CompareAndSwapGroup(ctx context.Context, groupID string, expectedVersion int64, g models.Group) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": groupID, "version": expectedVersion}, g)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.classifyMiss(ctx, groupID)
	}
	return nil
}

// DeleteGroup removes the record only if the stored version still matches.
func (s *Store) DeleteGroup(ctx context.Context, groupID string, expectedVersion int64) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": groupID, "version": expectedVersion})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.classifyMiss(ctx, groupID)
	}
	return nil
}

// classifyMiss distinguishes "record gone" from "record moved on".
func (s *Store) classifyMiss(ctx context.Context, groupID string) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if n == 0 {
		return membership.ErrNotFound
	}
	return membership.ErrVersionConflict
}

func (s *Store) ListGroupsByMember(ctx context.Context, userID string) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) ShareCodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"share_code": code})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
