package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "lunchwise"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "LUNCHWISE_APP_ENV"
	EnvPort     = "LUNCHWISE_APP_PORT"
	EnvLogLevel = "LUNCHWISE_LOG_LEVEL"

	EnvDBDriver = "LUNCHWISE_DB_DRIVER"
	EnvDBDSN    = "LUNCHWISE_DB_DSN"

	EnvKVBackend = "LUNCHWISE_KV_BACKEND"
	EnvRedisURL  = "LUNCHWISE_REDIS_URL"

	EnvApprovedCard     = "LUNCHWISE_CHECKOUT_APPROVED_CARD"
	EnvApprovedPassword = "LUNCHWISE_CHECKOUT_APPROVED_PASSWORD"
)
