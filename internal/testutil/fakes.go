// internal/testutil/fakes.go
package testutil

import (
	"context"
	"sync"

	"github.com/homesync/homesync/internal/app/membership"
	"github.com/homesync/homesync/internal/domain/models"
)

// FakeGroupStore is an in-memory membership.GroupStore with the same
// compare-and-swap contract as the Mongo store. BeforeCAS lets tests
// inject interleavings: it runs before each CAS attempt, outside the
// store lock, so a test can commit a competing write in between.
type FakeGroupStore struct {
	mu     sync.Mutex
	groups map[string]models.Group

	BeforeCAS func(groupID string)
}

func NewFakeGroupStore() *FakeGroupStore {
	return &FakeGroupStore{groups: make(map[string]models.Group)}
}

// Seed inserts a group directly, bypassing the share-code uniqueness
// check. For test setup only.
func (f *FakeGroupStore) Seed(g models.Group) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[g.ID] = g.Clone()
}

// Get returns the current record directly, for assertions.
func (f *FakeGroupStore) Get(groupID string) (models.Group, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return models.Group{}, false
	}
	return g.Clone(), true
}

func (f *FakeGroupStore) ReadGroup(ctx context.Context, groupID string) (models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return models.Group{}, membership.ErrNotFound
	}
	return g.Clone(), nil
}

func (f *FakeGroupStore) ReadGroupByShareCode(ctx context.Context, code string) (models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ShareCode == code {
			return g.Clone(), nil
		}
	}
	return models.Group{}, membership.ErrNotFound
}

func (f *FakeGroupStore) InsertGroup(ctx context.Context, g models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.groups {
		if existing.ShareCode == g.ShareCode {
			return membership.ErrDuplicateShareCode
		}
	}
	f.groups[g.ID] = g.Clone()
	return nil
}

func (f *FakeGroupStore) CompareAndSwapGroup(ctx context.Context, groupID string, expectedVersion int64, g models.Group) error {
	if f.BeforeCAS != nil {
		f.BeforeCAS(groupID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.groups[groupID]
	if !ok {
		return membership.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return membership.ErrVersionConflict
	}
	f.groups[groupID] = g.Clone()
	return nil
}

func (f *FakeGroupStore) DeleteGroup(ctx context.Context, groupID string, expectedVersion int64) error {
	if f.BeforeCAS != nil {
		f.BeforeCAS(groupID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.groups[groupID]
	if !ok {
		return membership.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return membership.ErrVersionConflict
	}
	delete(f.groups, groupID)
	return nil
}

func (f *FakeGroupStore) ListGroupsByMember(ctx context.Context, userID string) ([]models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Group
	for _, g := range f.groups {
		if g.HasMember(userID) {
			out = append(out, g.Clone())
		}
	}
	return out, nil
}

func (f *FakeGroupStore) ShareCodeInUse(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ShareCode == code {
			return true, nil
		}
	}
	return false, nil
}

// FakeUserDirectory is an in-memory membership.UserDirectory.
type FakeUserDirectory struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewFakeUserDirectory() *FakeUserDirectory {
	return &FakeUserDirectory{users: make(map[string]models.User)}
}

func (f *FakeUserDirectory) Add(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *FakeUserDirectory) GetUser(ctx context.Context, userID string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return models.User{}, membership.ErrNotFound
	}
	return u, nil
}

func (f *FakeUserDirectory) GetUserByShareCode(ctx context.Context, code string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ShareCode == code {
			return u, nil
		}
	}
	return models.User{}, membership.ErrNotFound
}

func (f *FakeUserDirectory) ShareCodeInUse(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ShareCode == code {
			return true, nil
		}
	}
	return false, nil
}

// CaptureDispatcher records dispatched notifications synchronously so
// tests can assert on fan-out without a worker goroutine.
type CaptureDispatcher struct {
	mu   sync.Mutex
	sent []models.Notification
}

func NewCaptureDispatcher() *CaptureDispatcher {
	return &CaptureDispatcher{}
}

func (c *CaptureDispatcher) Dispatch(n models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
}

// Sent returns a copy of everything dispatched so far.
func (c *CaptureDispatcher) Sent() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Notification(nil), c.sent...)
}

// SentTo returns the notifications addressed to userID.
func (c *CaptureDispatcher) SentTo(userID string) []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Notification
	for _, n := range c.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Reset clears the captured notifications.
func (c *CaptureDispatcher) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}
