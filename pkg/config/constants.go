package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "CARSPACE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "CARSPACE_APP_ENV"
	EnvPort                   = "CARSPACE_APP_PORT"
	EnvDBDSN                  = "CARSPACE_DB_DSN"
	EnvDBHost                 = "CARSPACE_DB_HOST"
	EnvDBUser                 = "CARSPACE_DB_USER"
	EnvDBName                 = "CARSPACE_DB_NAME"
	EnvRedisURL               = "CARSPACE_REDIS_URL"
	EnvJWTSecret              = "CARSPACE_JWT_SECRET"
	EnvJWTIssuer              = "CARSPACE_JWT_ISSUER"
	EnvJWTExpMins             = "CARSPACE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CARSPACE_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
