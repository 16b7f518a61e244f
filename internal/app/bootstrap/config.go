// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for HomeSync.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_token_secret, etc.
//   - Environment variables: HOMESYNC_MONGO_URI, HOMESYNC_AUTH_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --auth_token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "homesync", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "auth_token_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "auth_token_issuer", Default: "", Desc: "Expected token issuer (blank disables the check)"},

	{Name: "membership_max_retries", Default: 5, Desc: "Compare-and-swap retry budget per membership operation"},
	{Name: "notify_buffer", Default: 256, Desc: "Notification dispatch queue depth"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* core, HOMESYNC_* app), and flags,
// merged with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HOMESYNC", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthTokenSecret: appValues.String("auth_token_secret"),
		AuthTokenIssuer: appValues.String("auth_token_issuer"),

		MembershipMaxRetries: appValues.Int("membership_max_retries"),
		NotifyBuffer:         appValues.Int("notify_buffer"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is contacted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AuthTokenSecret == "" {
		return fmt.Errorf("auth_token_secret must be set")
	}
	if coreCfg.Env == "prod" && appCfg.AuthTokenSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("auth_token_secret must be changed from the dev default in production")
	}

	if appCfg.MembershipMaxRetries < 1 {
		return fmt.Errorf("membership_max_retries must be at least 1")
	}

	return nil
}
