// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/homesync/homesync/internal/app/features/api"
	"github.com/homesync/homesync/internal/app/system/authtoken"
)

func Routes(h *Handler, v *authtoken.Verifier) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires an authenticated user.
	r.Group(func(pr chi.Router) {
		pr.Use(api.RequireAuth(v))

		// LIST / CREATE
		pr.Get("/", h.HandleListGroups)
		pr.Post("/", h.HandleCreateGroup)

		// JOIN by group share code
		pr.Post("/join", h.HandleJoinGroup)

		// DETAIL / DELETE
		pr.Get("/{id}", h.HandleGetGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		// MEMBERSHIP
		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
		pr.Put("/{id}/members/{userID}/role", h.HandleUpdateRole)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
	})

	return r
}
