// internal/domain/models/group.go
package models

import "time"

// Role is a member's role inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group is a household group with embedded membership.
//
// NOTE:
//   - Members and Roles are embedded on the group document and are only
//     ever written through the membership service's compare-and-swap loop.
//   - Version is the CAS token; every committed write increments it.
//   - Invariants: Roles has exactly the keys in Members, and a non-empty
//     group always has at least one admin.
type Group struct {
	ID        string          `bson:"_id" json:"id"`
	Name      string          `bson:"name" json:"name"`
	ShareCode string          `bson:"share_code" json:"shareCode"`
	Members   []string        `bson:"members" json:"members"`
	Roles     map[string]Role `bson:"roles" json:"roles"`
	CreatedBy string          `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	Version int64 `bson:"version" json:"-"`
}

// HasMember reports whether userID is in the member set.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// RoleOf returns the role of userID, or "" if userID is not a member.
func (g *Group) RoleOf(userID string) Role {
	return g.Roles[userID]
}

// AdminCount returns the number of members holding the admin role.
func (g *Group) AdminCount() int {
	n := 0
	for _, r := range g.Roles {
		if r == RoleAdmin {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the group. Mutating operations work on a
// clone so a failed compare-and-swap never leaves a half-mutated record
// behind for the retry.
func (g *Group) Clone() Group {
	out := *g
	out.Members = append([]string(nil), g.Members...)
	out.Roles = make(map[string]Role, len(g.Roles))
	for k, v := range g.Roles {
		out.Roles[k] = v
	}
	return out
}
