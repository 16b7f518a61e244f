package groupstore_test

import (
	"errors"
	"testing"

	"github.com/homesync/homesync/internal/app/membership"
	groupstore "github.com/homesync/homesync/internal/app/store/groups"
	"github.com/homesync/homesync/internal/app/system/indexes"
	"github.com/homesync/homesync/internal/domain/models"
	"github.com/homesync/homesync/internal/testutil"
)

func TestReadGroupRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	if err := store.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.ReadGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "Smiths" || got.ShareCode != "SMITH1" || got.Version != 1 {
		t.Errorf("round trip: %+v", got)
	}
	if got.Roles["alice"] != models.RoleAdmin {
		t.Errorf("roles did not survive the round trip: %v", got.Roles)
	}

	if _, err := store.ReadGroup(ctx, "missing"); !errors.Is(err, membership.ErrNotFound) {
		t.Errorf("missing group: got %v, want ErrNotFound", err)
	}
}

func TestReadGroupByShareCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	if err := store.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.ReadGroupByShareCode(ctx, "SMITH1")
	if err != nil {
		t.Fatalf("read by code: %v", err)
	}
	if got.ID != g.ID {
		t.Errorf("got %q, want %q", got.ID, g.ID)
	}

	if _, err := store.ReadGroupByShareCode(ctx, "XXXXX9"); !errors.Is(err, membership.ErrNotFound) {
		t.Errorf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestInsertGroupDuplicateShareCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique share-code index is what turns the second insert into a
	// duplicate-key error.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensuring indexes: %v", err)
	}

	a := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	b := testutil.NewGroup(t, "Joneses", "SMITH1", "bob")

	if err := store.InsertGroup(ctx, a); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := store.InsertGroup(ctx, b); !errors.Is(err, membership.ErrDuplicateShareCode) {
		t.Errorf("second insert: got %v, want ErrDuplicateShareCode", err)
	}
}

func TestCompareAndSwapGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	if err := store.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Matching version commits.
	updated := g.Clone()
	updated.Members = append(updated.Members, "bob")
	updated.Roles["bob"] = models.RoleMember
	updated.Version = 2
	if err := store.CompareAndSwapGroup(ctx, g.ID, 1, updated); err != nil {
		t.Fatalf("cas: %v", err)
	}

	got, err := store.ReadGroup(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 || !got.HasMember("bob") {
		t.Errorf("after cas: %+v", got)
	}

	// Stale version conflicts and leaves the record untouched.
	stale := g.Clone()
	stale.Name = "Hijacked"
	stale.Version = 2
	if err := store.CompareAndSwapGroup(ctx, g.ID, 1, stale); !errors.Is(err, membership.ErrVersionConflict) {
		t.Fatalf("stale cas: got %v, want ErrVersionConflict", err)
	}
	got, _ = store.ReadGroup(ctx, g.ID)
	if got.Name != "Smiths" {
		t.Errorf("stale cas modified the record: %+v", got)
	}

	// Missing record classifies as not-found, not conflict.
	if err := store.CompareAndSwapGroup(ctx, "missing", 1, updated); !errors.Is(err, membership.ErrNotFound) {
		t.Errorf("missing cas: got %v, want ErrNotFound", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	if err := store.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := store.DeleteGroup(ctx, g.ID, 99); !errors.Is(err, membership.ErrVersionConflict) {
		t.Fatalf("stale delete: got %v, want ErrVersionConflict", err)
	}
	if err := store.DeleteGroup(ctx, g.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteGroup(ctx, g.ID, 1); !errors.Is(err, membership.ErrNotFound) {
		t.Errorf("repeat delete: got %v, want ErrNotFound", err)
	}
}

func TestListGroupsByMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	g2 := testutil.NewGroup(t, "Book Club", "BOOKS1", "bob")
	testutil.AddMemberFixture(&g2, "alice", models.RoleMember)
	g3 := testutil.NewGroup(t, "Neighbors", "HOODS1", "carol")

	for _, g := range []models.Group{g1, g2, g3} {
		if err := store.InsertGroup(ctx, g); err != nil {
			t.Fatalf("insert %s: %v", g.Name, err)
		}
	}

	list, err := store.ListGroupsByMember(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("alice groups: got %d, want 2", len(list))
	}

	list, err = store.ListGroupsByMember(ctx, "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("nobody groups: got %d, want 0", len(list))
	}
}

func TestShareCodeInUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := testutil.NewGroup(t, "Smiths", "SMITH1", "alice")
	if err := store.InsertGroup(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if used, err := store.ShareCodeInUse(ctx, "SMITH1"); err != nil || !used {
		t.Errorf("SMITH1: used=%v err=%v, want true", used, err)
	}
	if used, err := store.ShareCodeInUse(ctx, "XXXXX9"); err != nil || used {
		t.Errorf("XXXXX9: used=%v err=%v, want false", used, err)
	}
}
