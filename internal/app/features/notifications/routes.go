// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	"github.com/homesync/homesync/internal/app/features/api"
	"github.com/homesync/homesync/internal/app/system/authtoken"
)

func Routes(h *Handler, v *authtoken.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(api.RequireAuth(v))

		pr.Get("/", h.HandleList)
		pr.Post("/{id}/read", h.HandleMarkRead)
	})

	return r
}
