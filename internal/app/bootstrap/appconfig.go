// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to HomeSync.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Auth token verification. Tokens are minted by the upstream auth
	// service; this service only verifies them.
	AuthTokenSecret string // HS256 signing secret (must be strong in production)
	AuthTokenIssuer string // Expected iss claim (blank disables the check)

	// Membership service tuning
	MembershipMaxRetries int // Compare-and-swap retry budget per operation

	// Notification dispatcher tuning
	NotifyBuffer int // Queue depth before Dispatch drops
}
