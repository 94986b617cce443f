package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Invite        InviteConfig
	AuthRateLimit AuthRateLimitConfig
	Migrate       MigrateConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FUSION_APP_ENV" default:"dev"`
	Port         string `envconfig:"FUSION_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"FUSION_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUSION_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"FUSION_LOG_FORMAT" default:"json"`
}

// ConsoleLogs reports whether logs should use the human readable writer.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(strings.TrimSpace(a.LogFormat), "console")
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path        string        `envconfig:"FUSION_DB_PATH" default:"fusion.db"`
	BusyTimeout time.Duration `envconfig:"FUSION_DB_BUSY_TIMEOUT" default:"5s"`
	JournalMode string        `envconfig:"FUSION_DB_JOURNAL_MODE" default:"WAL"`
	SlowQuery   time.Duration `envconfig:"FUSION_DB_SLOW_QUERY" default:"200ms"`
}

// DSN renders the sqlite3 connection string with foreign keys enforced.
func (d DBConfig) DSN() string {
	params := []string{"_foreign_keys=on"}
	if d.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", d.BusyTimeout.Milliseconds()))
	}
	if mode := strings.TrimSpace(d.JournalMode); mode != "" {
		params = append(params, "_journal_mode="+strings.ToUpper(mode))
	}
	sep := "?"
	if strings.Contains(d.Path, "?") {
		sep = "&"
	}
	return d.Path + sep + strings.Join(params, "&")
}

func (d DBConfig) validate() error {
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("%s is required", EnvDBPath)
	}
	return nil
}

// RedisConfig is optional; an empty URL and address disables rate limiting and token revocation.
type RedisConfig struct {
	URL          string        `envconfig:"FUSION_REDIS_URL"`
	Address      string        `envconfig:"FUSION_REDIS_ADDR"`
	Password     string        `envconfig:"FUSION_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUSION_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUSION_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"FUSION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUSION_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FUSION_REDIS_WRITE_TIMEOUT" default:"3s"`
	KeyPrefix    string        `envconfig:"FUSION_REDIS_KEY_PREFIX" default:"fusion"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FUSION_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUSION_JWT_ISSUER" default:"fusion"`
	ExpirationMinutes int    `envconfig:"FUSION_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TTL returns the configured token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUSION_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUSION_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUSION_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUSION_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUSION_ARGON_KEY_LEN" default:"32"`
}

type InviteConfig struct {
	DefaultTTLDays int `envconfig:"FUSION_INVITE_TTL_DAYS" default:"7"`
	CodeLength     int `envconfig:"FUSION_INVITE_CODE_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FUSION_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FUSION_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FUSION_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FUSION_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FUSION_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FUSION_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type MigrateConfig struct {
	AutoRun bool `envconfig:"FUSION_MIGRATE_AUTO" default:"true"`
	// TolerateFailure keeps the API serving on a partially migrated schema.
	TolerateFailure bool `envconfig:"FUSION_MIGRATE_TOLERATE_FAILURE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string      `envconfig:"FUSION_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	MaxAge         time.Duration `envconfig:"FUSION_CORS_MAX_AGE" default:"5m"`
}
