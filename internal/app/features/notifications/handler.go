// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/app/features/api"
	"github.com/homesync/homesync/internal/app/system/apperr"
	"github.com/homesync/homesync/internal/app/system/authtoken"
	"github.com/homesync/homesync/internal/app/system/timeouts"
	notificationstore "github.com/homesync/homesync/internal/app/store/notifications"
	"github.com/homesync/homesync/internal/domain/models"
)

// Handler serves the in-app notification feed.
type Handler struct {
	Store *notificationstore.Store
	Log   *zap.Logger
}

func NewHandler(store *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type listResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// HandleList returns the caller's notifications, newest first.
// GET /notifications
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID := authtoken.UserID(r)
	list, err := h.Store.ListByUser(ctx, userID)
	if err != nil {
		api.FailErr(w, h.Log, apperr.Internal("listing notifications", err))
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	unread, err := h.Store.CountUnread(ctx, userID)
	if err != nil {
		api.FailErr(w, h.Log, apperr.Internal("counting unread notifications", err))
		return
	}
	api.OK(w, http.StatusOK, listResponse{Notifications: list, Unread: unread})
}

// HandleMarkRead flags one notification as read.
// POST /notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Store.MarkRead(ctx, authtoken.UserID(r), chi.URLParam(r, "id"))
	if errors.Is(err, notificationstore.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, apperr.CodeNotFound, "Notification not found.")
		return
	}
	if err != nil {
		api.FailErr(w, h.Log, apperr.Internal("marking notification read", err))
		return
	}
	api.OK(w, http.StatusOK, nil)
}
