package config

const (
	EnvPrefix = "FUSION"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "FUSION_APP_ENV"
	EnvPort            = "FUSION_APP_PORT"
	EnvLogLevel        = "FUSION_LOG_LEVEL"
	EnvDBPath          = "FUSION_DB_PATH"
	EnvDBBusyTimeout   = "FUSION_DB_BUSY_TIMEOUT"
	EnvRedisURL        = "FUSION_REDIS_URL"
	EnvJWTSecret       = "FUSION_JWT_SECRET"
	EnvJWTIssuer       = "FUSION_JWT_ISSUER"
	EnvJWTExpMins      = "FUSION_JWT_EXPIRATION_MINUTES"
	EnvInviteTTLDays   = "FUSION_INVITE_TTL_DAYS"
	EnvMigrateAuto     = "FUSION_MIGRATE_AUTO"
	EnvMigrateTolerate = "FUSION_MIGRATE_TOLERATE_FAILURE"
	EnvCORSOrigins     = "FUSION_CORS_ORIGINS"
)
