// internal/app/membership/service.go
package membership

// Terminology:
//   - actor: the authenticated user performing the operation
//   - target: the user being added, removed, or re-roled
//
// Every mutation is a read-modify-compare-and-swap loop against the
// group store. Correctness under concurrent requests comes entirely from
// the store's version check; the service holds no in-process locks and
// may run as multiple stateless instances.

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/app/system/apperr"
	"github.com/homesync/homesync/internal/domain/models"
)

const (
	// DefaultMaxRetries bounds the compare-and-swap retry loop.
	DefaultMaxRetries = 5

	minGroupNameLen = 3
	maxGroupNameLen = 50
)

// Service owns group membership invariants. It is the only writer of
// group records.
type Service struct {
	groups     GroupStore
	users      UserDirectory
	dispatcher Dispatcher
	log        *zap.Logger
	maxRetries int
}

// New constructs the membership service. All dependencies are injected;
// there are no ambient singletons.
func New(groups GroupStore, users UserDirectory, dispatcher Dispatcher, logger *zap.Logger) *Service {
	return &Service{
		groups:     groups,
		users:      users,
		dispatcher: dispatcher,
		log:        logger,
		maxRetries: DefaultMaxRetries,
	}
}

// SetMaxRetries overrides the compare-and-swap retry budget. Values
// below 1 are ignored.
func (s *Service) SetMaxRetries(n int) {
	if n >= 1 {
		s.maxRetries = n
	}
}

/* -------------------------------------------------------------------- */
/* Operations                                                           */
/* -------------------------------------------------------------------- */

// CreateGroup creates a group with the creator as sole admin and a share
// code unique among live groups and user profiles.
func (s *Service) CreateGroup(ctx context.Context, creatorID, name string) (models.Group, error) {
	name = strings.TrimSpace(name)
	if len(name) < minGroupNameLen || len(name) > maxGroupNameLen {
		return models.Group{}, apperr.Validation("group name must be 3-50 characters")
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Members:   []string{creatorID},
		Roles:     map[string]models.Role{creatorID: models.RoleAdmin},
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	for attempt := 0; attempt < shareCodeAttempts; attempt++ {
		code, err := randomShareCode()
		if err != nil {
			return models.Group{}, apperr.Internal("generating share code", err)
		}
		taken, err := s.shareCodeTaken(ctx, code)
		if err != nil {
			return models.Group{}, apperr.Internal("checking share code", err)
		}
		if taken {
			continue
		}
		g.ShareCode = code
		err = s.groups.InsertGroup(ctx, g)
		if err == nil {
			return g, nil
		}
		// Lost the race for this code; try another.
		if errors.Is(err, ErrDuplicateShareCode) {
			continue
		}
		return models.Group{}, apperr.Internal("creating group", err)
	}

	// Timestamp-derived fallback guarantees termination.
	g.ShareCode = fallbackShareCode(time.Now().UnixNano())
	if taken, err := s.shareCodeTaken(ctx, g.ShareCode); err != nil {
		return models.Group{}, apperr.Internal("checking share code", err)
	} else if taken {
		return models.Group{}, apperr.CodeExhaustion("could not allocate a unique share code")
	}
	if err := s.groups.InsertGroup(ctx, g); err != nil {
		if errors.Is(err, ErrDuplicateShareCode) {
			return models.Group{}, apperr.CodeExhaustion("could not allocate a unique share code")
		}
		return models.Group{}, apperr.Internal("creating group", err)
	}
	return g, nil
}

// ListGroupsForUser returns every group the user belongs to.
func (s *Service) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.groups.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("listing groups", err)
	}
	return groups, nil
}

// GetGroup returns the group detail. Only members may read a group.
func (s *Service) GetGroup(ctx context.Context, actorID, groupID string) (models.Group, error) {
	g, err := s.groups.ReadGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, mapReadErr(err, "group not found")
	}
	if !g.HasMember(actorID) {
		return models.Group{}, apperr.AccessDenied("you are not a member of this group")
	}
	return g, nil
}

// JoinByShareCode adds the caller to the group holding the code and
// notifies the pre-existing members.
func (s *Service) JoinByShareCode(ctx context.Context, userID, shareCode string) (models.Group, error) {
	shareCode = normalizeShareCode(shareCode)
	if len(shareCode) != shareCodeLength {
		return models.Group{}, apperr.Validation("share code must be 6 characters")
	}

	found, err := s.groups.ReadGroupByShareCode(ctx, shareCode)
	if err != nil {
		return models.Group{}, mapReadErr(err, "no group found for this share code")
	}

	var existing []string
	updated, err := s.updateGroup(ctx, found.ID, func(g *models.Group) error {
		if g.HasMember(userID) {
			return apperr.AlreadyMember("you are already a member of this group")
		}
		existing = append([]string(nil), g.Members...)
		g.Members = append(g.Members, userID)
		g.Roles[userID] = models.RoleMember
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}

	name := s.displayName(ctx, userID)
	for _, m := range existing {
		s.send(updated, m, models.NotifyMemberJoined, userID,
			name+" joined "+updated.Name)
	}
	return updated, nil
}

// AddMemberByShareCode resolves a user by personal share code and adds
// them to the group. Only the added user is notified.
func (s *Service) AddMemberByShareCode(ctx context.Context, actorID, groupID, shareCode string) (models.Group, error) {
	shareCode = normalizeShareCode(shareCode)
	if len(shareCode) != shareCodeLength {
		return models.Group{}, apperr.Validation("share code must be 6 characters")
	}

	g, err := s.groups.ReadGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, mapReadErr(err, "group not found")
	}
	if !g.HasMember(actorID) {
		return models.Group{}, apperr.AccessDenied("you are not a member of this group")
	}

	target, err := s.users.GetUserByShareCode(ctx, shareCode)
	if err != nil {
		return models.Group{}, mapReadErr(err, "no user found for this share code")
	}
	if target.ID == actorID {
		return models.Group{}, apperr.SelfAdd("you cannot add yourself")
	}

	updated, err := s.updateGroup(ctx, groupID, func(g *models.Group) error {
		if !g.HasMember(actorID) {
			return apperr.AccessDenied("you are not a member of this group")
		}
		if g.HasMember(target.ID) {
			return apperr.AlreadyMember("user is already a member of this group")
		}
		g.Members = append(g.Members, target.ID)
		g.Roles[target.ID] = models.RoleMember
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}

	s.send(updated, target.ID, models.NotifyMemberAdded, actorID,
		s.displayName(ctx, actorID)+" added you to "+updated.Name)
	return updated, nil
}

// RemoveMember removes targetID from the group. Only admins may remove
// members; the acting admin always remains, so this path cannot empty
// the admin set.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, targetID string) (models.Group, error) {
	if targetID == actorID {
		return models.Group{}, apperr.Validation("use leave to remove yourself from a group")
	}

	updated, err := s.updateGroup(ctx, groupID, func(g *models.Group) error {
		if g.RoleOf(actorID) != models.RoleAdmin {
			return apperr.AccessDenied("only admins can remove members")
		}
		if !g.HasMember(targetID) {
			return apperr.NotFound("user is not a member of this group")
		}
		removeMember(g, targetID)
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}

	s.send(updated, targetID, models.NotifyMemberRemoved, actorID,
		"You were removed from "+updated.Name)
	return updated, nil
}

// LeaveGroup removes the caller from the group. If the caller is the
// sole admin and other members remain, the member with the
// lexicographically smallest ID is promoted to admin first. If the
// caller was the last member, the group is deleted.
func (s *Service) LeaveGroup(ctx context.Context, userID, groupID string) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		g, err := s.groups.ReadGroup(ctx, groupID)
		if err != nil {
			return mapReadErr(err, "group not found")
		}
		if !g.HasMember(userID) {
			return apperr.NotFound("you are not a member of this group")
		}

		// Last member out deletes the group; nobody is left to notify.
		if len(g.Members) == 1 {
			err = s.groups.DeleteGroup(ctx, groupID, g.Version)
			if errors.Is(err, ErrVersionConflict) {
				continue
			}
			if err != nil {
				return mapReadErr(err, "group not found")
			}
			return nil
		}

		updated := g.Clone()
		promoted := ""
		if updated.RoleOf(userID) == models.RoleAdmin && updated.AdminCount() == 1 {
			promoted = successorAdmin(&updated, userID)
			updated.Roles[promoted] = models.RoleAdmin
		}
		removeMember(&updated, userID)
		updated.UpdatedAt = time.Now().UTC()
		updated.Version = g.Version + 1

		err = s.groups.CompareAndSwapGroup(ctx, groupID, g.Version, updated)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return mapReadErr(err, "group not found")
		}

		name := s.displayName(ctx, userID)
		for _, m := range updated.Members {
			s.send(updated, m, models.NotifyMemberLeft, userID,
				name+" left "+updated.Name)
		}
		if promoted != "" {
			s.send(updated, promoted, models.NotifyAdminPromoted, userID,
				"You are now an admin of "+updated.Name)
		}
		return nil
	}
	return apperr.ConcurrencyExhausted("group is busy, please retry")
}

// UpdateMemberRole sets the target's role. Demoting the last remaining
// admin is rejected, never silently coerced.
func (s *Service) UpdateMemberRole(ctx context.Context, actorID, groupID, targetID string, newRole models.Role) (models.Group, error) {
	if !newRole.IsValid() {
		return models.Group{}, apperr.Validation(`role must be "admin" or "member"`)
	}

	wasAdmin := false
	updated, err := s.updateGroup(ctx, groupID, func(g *models.Group) error {
		if g.RoleOf(actorID) != models.RoleAdmin {
			return apperr.AccessDenied("only admins can change roles")
		}
		if !g.HasMember(targetID) {
			return apperr.NotFound("user is not a member of this group")
		}
		wasAdmin = g.RoleOf(targetID) == models.RoleAdmin
		if wasAdmin && newRole == models.RoleMember && g.AdminCount() == 1 {
			return apperr.InvariantViolation("cannot demote the only admin")
		}
		g.Roles[targetID] = newRole
		return nil
	})
	if err != nil {
		return models.Group{}, err
	}

	if newRole == models.RoleAdmin && !wasAdmin && targetID != actorID {
		s.send(updated, targetID, models.NotifyAdminPromoted, actorID,
			"You are now an admin of "+updated.Name)
	}
	return updated, nil
}

// DeleteGroup removes the group. Only the creator or an admin may
// delete. The record is deleted before notifications are enqueued, so a
// crash in between loses notifications rather than announcing a group
// that still exists.
func (s *Service) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		g, err := s.groups.ReadGroup(ctx, groupID)
		if err != nil {
			return mapReadErr(err, "group not found")
		}
		if g.CreatedBy != actorID && g.RoleOf(actorID) != models.RoleAdmin {
			return apperr.AccessDenied("only the creator or an admin can delete this group")
		}

		err = s.groups.DeleteGroup(ctx, groupID, g.Version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return mapReadErr(err, "group not found")
		}

		for _, m := range g.Members {
			if m == actorID {
				continue
			}
			s.send(g, m, models.NotifyGroupDeleted, actorID, g.Name+" was deleted")
		}
		return nil
	}
	return apperr.ConcurrencyExhausted("group is busy, please retry")
}

/* -------------------------------------------------------------------- */
/* Compare-and-swap loop and helpers                                    */
/* -------------------------------------------------------------------- */

// updateGroup runs mutate against the freshest copy of the group and
// commits it with a version check, retrying on conflict up to the retry
// budget. mutate sees a clone, so an aborted commit leaves no trace.
func (s *Service) updateGroup(ctx context.Context, groupID string, mutate func(*models.Group) error) (models.Group, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		g, err := s.groups.ReadGroup(ctx, groupID)
		if err != nil {
			return models.Group{}, mapReadErr(err, "group not found")
		}

		updated := g.Clone()
		if err := mutate(&updated); err != nil {
			return models.Group{}, err
		}
		if err := checkInvariants(&updated); err != nil {
			s.log.Error("membership invariant check failed before commit",
				zap.String("group_id", groupID),
				zap.Error(err))
			return models.Group{}, apperr.Internal("membership state error", err)
		}
		updated.UpdatedAt = time.Now().UTC()
		updated.Version = g.Version + 1

		err = s.groups.CompareAndSwapGroup(ctx, groupID, g.Version, updated)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		return models.Group{}, mapReadErr(err, "group not found")
	}
	return models.Group{}, apperr.ConcurrencyExhausted("group is busy, please retry")
}

// checkInvariants verifies the always-true membership invariants on a
// record about to be committed.
func checkInvariants(g *models.Group) error {
	if len(g.Roles) != len(g.Members) {
		return errors.New("roles and members out of sync")
	}
	for _, m := range g.Members {
		if !g.Roles[m].IsValid() {
			return errors.New("member " + m + " has no valid role")
		}
	}
	if len(g.Members) > 0 && g.AdminCount() == 0 {
		return errors.New("group has no admin")
	}
	return nil
}

// successorAdmin picks the replacement admin when the sole admin leaves:
// the lexicographically smallest remaining member ID. Deterministic so
// concurrent retries and replays agree on the outcome.
func successorAdmin(g *models.Group, leavingID string) string {
	rest := make([]string, 0, len(g.Members)-1)
	for _, m := range g.Members {
		if m != leavingID {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	return rest[0]
}

func removeMember(g *models.Group, userID string) {
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
	delete(g.Roles, userID)
}

// mapReadErr converts store read errors into API errors without leaking
// backend detail.
func mapReadErr(err error, notFoundMsg string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Internal("storage error", err)
}

/* -------------------------------------------------------------------- */
/* Notifications                                                        */
/* -------------------------------------------------------------------- */

// send enqueues one notification. Best effort: the dispatcher owns
// everything past this point.
func (s *Service) send(g models.Group, userID string, kind models.NotificationKind, actorID, message string) {
	s.dispatcher.Dispatch(models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		GroupID:   g.ID,
		GroupName: g.Name,
		Kind:      kind,
		Message:   message,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})
}

// displayName resolves a user's display name for notification text,
// falling back to a generic label if the directory lookup fails.
func (s *Service) displayName(ctx context.Context, userID string) string {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.log.Warn("could not resolve display name for notification",
			zap.String("user_id", userID),
			zap.Error(err))
		return "A member"
	}
	return u.DisplayName
}
