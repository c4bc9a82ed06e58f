package config

const (
	EnvPrefix = "FLICKLY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "FLICKLY_APP_ENV"
	EnvPort      = "FLICKLY_APP_PORT"
	EnvLogLevel  = "FLICKLY_LOG_LEVEL"
	EnvLogFormat = "FLICKLY_LOG_FORMAT"

	EnvDBDSN    = "FLICKLY_DB_DSN"
	EnvDBDriver = "FLICKLY_DB_DRIVER"
	EnvDBHost   = "FLICKLY_DB_HOST"
	EnvDBPort   = "FLICKLY_DB_PORT"
	EnvDBUser   = "FLICKLY_DB_USER"
	EnvDBPass   = "FLICKLY_DB_PASSWORD"
	EnvDBName   = "FLICKLY_DB_NAME"

	EnvRedisURL = "FLICKLY_REDIS_URL"

	EnvJWTSecret = "FLICKLY_JWT_SECRET"
	EnvJWTIssuer = "FLICKLY_JWT_ISSUER"
	EnvJWTTTL    = "FLICKLY_JWT_TTL"

	EnvBcryptCost = "FLICKLY_BCRYPT_COST"

	EnvYouTubeAPIKey  = "FLICKLY_YOUTUBE_API_KEY"
	EnvYouTubeBaseURL = "FLICKLY_YOUTUBE_BASE_URL"

	EnvCORSAllowedOrigins = "FLICKLY_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
