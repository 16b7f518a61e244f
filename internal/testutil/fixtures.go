// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homesync/homesync/internal/domain/models"
)

// TestContext returns a context suitable for test database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// NewUser builds a user profile with a generated ID.
func NewUser(displayName, email, shareCode string) models.User {
	now := time.Now().UTC()
	return models.User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Email:       email,
		ShareCode:   shareCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewUserWithID builds a user profile with a fixed ID, useful when a
// test needs predictable member ordering.
func NewUserWithID(id, displayName, email, shareCode string) models.User {
	u := NewUser(displayName, email, shareCode)
	u.ID = id
	return u
}

// NewGroup builds a group record with the creator as sole admin, the
// same shape CreateGroup produces.
func NewGroup(t *testing.T, name, shareCode, creatorID string) models.Group {
	t.Helper()

	now := time.Now().UTC()
	return models.Group{
		ID:        uuid.NewString(),
		Name:      name,
		ShareCode: shareCode,
		Members:   []string{creatorID},
		Roles:     map[string]models.Role{creatorID: models.RoleAdmin},
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// AddMemberFixture appends a member with the given role to a group
// record under construction. Test setup only; invariants are the
// caller's responsibility.
func AddMemberFixture(g *models.Group, userID string, role models.Role) {
	g.Members = append(g.Members, userID)
	g.Roles[userID] = role
}
