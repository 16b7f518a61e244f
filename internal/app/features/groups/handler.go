// internal/app/features/groups/handler.go
package groups

import (
	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/app/membership"
)

// Handler is the shared dependency container for the groups feature. The
// membership service owns all group state; handlers only decode requests
// and write envelopes.
type Handler struct {
	Svc *membership.Service
	Log *zap.Logger
}

// NewHandler constructs a groups Handler. Typically called from the
// bootstrap BuildHandler function.
func NewHandler(svc *membership.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc: svc,
		Log: logger,
	}
}
