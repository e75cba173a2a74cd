package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "DOMEO"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "DOMEO_APP_ENV"
	EnvPort            = "DOMEO_APP_PORT"
	EnvLogLevel        = "DOMEO_LOG_LEVEL"
	EnvDBDSN           = "DOMEO_DB_DSN"
	EnvDBHost          = "DOMEO_DB_HOST"
	EnvDBUser          = "DOMEO_DB_USER"
	EnvDBName          = "DOMEO_DB_NAME"
	EnvRedisURL        = "DOMEO_REDIS_URL"
	EnvJWTSecret       = "DOMEO_JWT_SECRET"
	EnvJWTIssuer       = "DOMEO_JWT_ISSUER"
	EnvJWTExpMins      = "DOMEO_JWT_EXPIRATION_MINUTES"
	EnvDedupFuzzyLimit = "DOMEO_DEDUP_FUZZY_LIMIT"
	EnvDedupMoneyTol   = "DOMEO_DEDUP_MONEY_TOLERANCE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
