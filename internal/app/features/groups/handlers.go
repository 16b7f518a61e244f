// internal/app/features/groups/handlers.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homesync/homesync/internal/app/features/api"
	"github.com/homesync/homesync/internal/app/system/apperr"
	"github.com/homesync/homesync/internal/app/system/authtoken"
	"github.com/homesync/homesync/internal/app/system/timeouts"
	"github.com/homesync/homesync/internal/domain/models"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	ShareCode string `json:"shareCode"`
}

type addMemberRequest struct {
	ShareCode string `json:"shareCode"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// HandleCreateGroup creates a group with the caller as sole admin.
// POST /groups
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.CreateGroup(ctx, authtoken.UserID(r), req.Name)
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusCreated, g)
}

// HandleListGroups returns every group the caller belongs to.
// GET /groups
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListGroupsForUser(ctx, authtoken.UserID(r))
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Group{}
	}
	api.OK(w, http.StatusOK, list)
}

// HandleGetGroup returns one group's detail; members only.
// GET /groups/{id}
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Svc.GetGroup(ctx, authtoken.UserID(r), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, g)
}

// HandleJoinGroup joins the caller to the group holding the share code.
// POST /groups/join
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.JoinByShareCode(ctx, authtoken.UserID(r), req.ShareCode)
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, g)
}

// HandleAddMember adds a user (resolved by personal share code) to the group.
// POST /groups/{id}/members
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.AddMemberByShareCode(ctx, authtoken.UserID(r), chi.URLParam(r, "id"), req.ShareCode)
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, g)
}

// HandleRemoveMember removes a member; admins only.
// DELETE /groups/{id}/members/{userID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.RemoveMember(ctx, authtoken.UserID(r), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, g)
}

// HandleUpdateRole changes a member's role; admins only.
// PUT /groups/{id}/members/{userID}/role
func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.UpdateMemberRole(ctx, authtoken.UserID(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"), models.Role(req.Role))
	if err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, g)
}

// HandleLeaveGroup removes the caller from the group, promoting a
// successor admin or deleting the group as needed.
// POST /groups/{id}/leave
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.LeaveGroup(ctx, authtoken.UserID(r), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, nil)
}

// HandleDeleteGroup deletes the group; creator or admins only.
// DELETE /groups/{id}
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Svc.DeleteGroup(ctx, authtoken.UserID(r), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, h.Log, err)
		return
	}
	api.OK(w, http.StatusOK, nil)
}

// decodeBody parses the JSON request body, writing a validation envelope
// on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, apperr.CodeValidation, "Invalid request body.")
		return false
	}
	return true
}
