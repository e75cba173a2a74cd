package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Dedup        DedupConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DOMEO_APP_ENV" required:"true"`
	Port         string `envconfig:"DOMEO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DOMEO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOMEO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DOMEO_DB_DSN"`
	Driver string `envconfig:"DOMEO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DOMEO_DB_HOST"`
	LegacyPort     int    `envconfig:"DOMEO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DOMEO_DB_USER"`
	LegacyPassword string `envconfig:"DOMEO_DB_PASSWORD"`
	LegacyName     string `envconfig:"DOMEO_DB_NAME"`
	LegacySSLMode  string `envconfig:"DOMEO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DOMEO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DOMEO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DOMEO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DOMEO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOMEO_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"DOMEO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOMEO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOMEO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOMEO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOMEO_REDIS_WRITE_TIMEOUT" default:"5s"`
	DocumentTTL  time.Duration `envconfig:"DOMEO_REDIS_DOCUMENT_TTL" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DOMEO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DOMEO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DOMEO_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// DedupConfig tunes duplicate detection for document creation.
type DedupConfig struct {
	FuzzyLimit     int     `envconfig:"DOMEO_DEDUP_FUZZY_LIMIT" default:"10"`
	MoneyTolerance float64 `envconfig:"DOMEO_DEDUP_MONEY_TOLERANCE" default:"0.01"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DOMEO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DOMEO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DOMEO_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DOMEO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DOMEO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
