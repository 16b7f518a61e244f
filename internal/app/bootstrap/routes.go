// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	groupsfeature "github.com/homesync/homesync/internal/app/features/groups"
	healthfeature "github.com/homesync/homesync/internal/app/features/health"
	notificationsfeature "github.com/homesync/homesync/internal/app/features/notifications"
	"github.com/homesync/homesync/internal/app/membership"
	"github.com/homesync/homesync/internal/app/notify"
	groupstore "github.com/homesync/homesync/internal/app/store/groups"
	notificationstore "github.com/homesync/homesync/internal/app/store/notifications"
	userstore "github.com/homesync/homesync/internal/app/store/users"
	"github.com/homesync/homesync/internal/app/system/authtoken"
)

// dispatcher is created in BuildHandler and stopped in Shutdown so
// queued notifications drain before the process exits.
var dispatcher *notify.Dispatcher

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after config, DB connect, schema setup, and
// Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.HomeSyncMongoDatabase

	verifier, err := authtoken.NewVerifier(appCfg.AuthTokenSecret, appCfg.AuthTokenIssuer)
	if err != nil {
		logger.Error("auth token verifier init failed", zap.Error(err))
		return nil, err
	}

	notifStore := notificationstore.New(db)
	dispatcher = notify.New(notifStore, logger, appCfg.NotifyBuffer)
	dispatcher.Start()

	svc := membership.New(groupstore.New(db), userstore.New(db), dispatcher, logger)
	svc.SetMaxRetries(appCfg.MembershipMaxRetries)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.HomeSyncMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group membership API
	groupsHandler := groupsfeature.NewHandler(svc, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, verifier))

	// In-app notification feed
	notifHandler := notificationsfeature.NewHandler(notifStore, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notifHandler, verifier))

	return r, nil
}
