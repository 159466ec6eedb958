package config

const (
	EnvPrefix = "WARDROP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "WARDROP_APP_ENV"
	EnvPort      = "WARDROP_APP_PORT"
	EnvTimezone  = "WARDROP_APP_TIMEZONE"
	EnvDBDSN     = "WARDROP_DB_DSN"
	EnvDBHost    = "WARDROP_DB_HOST"
	EnvDBUser    = "WARDROP_DB_USER"
	EnvDBName    = "WARDROP_DB_NAME"
	EnvRedisURL  = "WARDROP_REDIS_URL"
	EnvJWTSecret = "WARDROP_JWT_SECRET"
	EnvJWTIssuer = "WARDROP_JWT_ISSUER"
	EnvJWTExp    = "WARDROP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
