package config

//nolint:gosec,revive // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Reply
	EnvMaxMessagesPerReply = "MAX_MESSAGES_PER_REPLY"
	EnvGlobalRateRPS       = "GLOBAL_RATE_LIMIT_RPS"

	// Station lookup
	EnvStationAPIURL        = "STATION_API_URL"
	EnvStationLookupTimeout = "STATION_LOOKUP_TIMEOUT"

	// Metrics auth
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"

	// Sentry (Better Stack errors)
	EnvSentryToken       = "SENTRY_TOKEN"
	EnvSentryHost        = "SENTRY_HOST"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"

	// Better Stack logs
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"
)
