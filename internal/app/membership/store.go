// internal/app/membership/store.go
package membership

import (
	"context"
	"errors"

	"github.com/homesync/homesync/internal/domain/models"
)

// Store contract errors. Implementations translate their backend's
// failures into these sentinels; the service maps them onto the API
// error taxonomy.
var (
	// ErrNotFound is returned when a group (or user) does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned by CompareAndSwapGroup and
	// DeleteGroup when the record changed since it was read.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicateShareCode is returned by InsertGroup when another live
	// group already holds the share code.
	ErrDuplicateShareCode = errors.New("share code already in use")
)

// GroupStore is the persistent membership store. Every mutation the
// service performs goes through InsertGroup, CompareAndSwapGroup, or
// DeleteGroup; there is no unconditional overwrite.
type GroupStore interface {
	// ReadGroup returns the group or ErrNotFound.
	ReadGroup(ctx context.Context, groupID string) (models.Group, error)

	// ReadGroupByShareCode returns the group holding code, or ErrNotFound.
	ReadGroupByShareCode(ctx context.Context, code string) (models.Group, error)

	// InsertGroup creates a new group record. Returns
	// ErrDuplicateShareCode if the share code is taken.
	InsertGroup(ctx context.Context, g models.Group) error

	// CompareAndSwapGroup replaces the record only if its stored version
	// equals expectedVersion. Returns ErrVersionConflict if the record
	// changed, ErrNotFound if it no longer exists.
	CompareAndSwapGroup(ctx context.Context, groupID string, expectedVersion int64, g models.Group) error

	// DeleteGroup removes the record only if its stored version equals
	// expectedVersion. Same error contract as CompareAndSwapGroup.
	DeleteGroup(ctx context.Context, groupID string, expectedVersion int64) error

	// ListGroupsByMember returns every group userID belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]models.Group, error)

	// ShareCodeInUse reports whether any live group holds code.
	ShareCodeInUse(ctx context.Context, code string) (bool, error)
}

// UserDirectory is the read-only view of user profiles this service
// needs: share-code resolution and display names for notification text.
type UserDirectory interface {
	// GetUser returns the profile or ErrNotFound.
	GetUser(ctx context.Context, userID string) (models.User, error)

	// GetUserByShareCode resolves a personal share code, or ErrNotFound.
	GetUserByShareCode(ctx context.Context, code string) (models.User, error)

	// ShareCodeInUse reports whether any user profile holds code.
	ShareCodeInUse(ctx context.Context, code string) (bool, error)
}

// Dispatcher accepts notifications as a fire-and-forget side effect of a
// committed membership change. Implementations own delivery, retry, and
// storage; a Dispatch call must never block a request for long and its
// outcome never affects the membership operation's result.
type Dispatcher interface {
	Dispatch(n models.Notification)
}
