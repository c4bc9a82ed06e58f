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
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	YouTube      YouTubeConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"FLICKLY_APP_ENV" required:"true"`
	Port         string `envconfig:"FLICKLY_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"FLICKLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLICKLY_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"FLICKLY_LOG_FORMAT" default:"json"`
	LogNoColor   bool   `envconfig:"FLICKLY_LOG_NO_COLOR" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLICKLY_DB_DSN"`
	Driver string `envconfig:"FLICKLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLICKLY_DB_HOST"`
	LegacyPort     int    `envconfig:"FLICKLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLICKLY_DB_USER"`
	LegacyPassword string `envconfig:"FLICKLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLICKLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLICKLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLICKLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLICKLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLICKLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLICKLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FLICKLY_REDIS_URL"`
	Address      string        `envconfig:"FLICKLY_REDIS_ADDR"`
	Password     string        `envconfig:"FLICKLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLICKLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLICKLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLICKLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLICKLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLICKLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLICKLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether enough connection data was supplied to dial Redis.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret string        `envconfig:"FLICKLY_JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"FLICKLY_JWT_ISSUER" default:"flickly"`
	TTL    time.Duration `envconfig:"FLICKLY_JWT_TTL" default:"168h"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"FLICKLY_BCRYPT_COST" default:"10"`
}

type RateLimitConfig struct {
	AuthWindow       time.Duration `envconfig:"FLICKLY_RATE_LIMIT_AUTH_WINDOW" default:"1m"`
	AuthIPLimit      int           `envconfig:"FLICKLY_RATE_LIMIT_AUTH_IP_LIMIT" default:"5"`
	AuthSubjectLimit int           `envconfig:"FLICKLY_RATE_LIMIT_AUTH_SUBJECT_LIMIT" default:"5"`
	SearchWindow     time.Duration `envconfig:"FLICKLY_RATE_LIMIT_SEARCH_WINDOW" default:"1m"`
	SearchIPLimit    int           `envconfig:"FLICKLY_RATE_LIMIT_SEARCH_IP_LIMIT" default:"500"`
	DetailWindow     time.Duration `envconfig:"FLICKLY_RATE_LIMIT_DETAIL_WINDOW" default:"1m"`
	DetailIPLimit    int           `envconfig:"FLICKLY_RATE_LIMIT_DETAIL_IP_LIMIT" default:"200"`
	DefaultWindow    time.Duration `envconfig:"FLICKLY_RATE_LIMIT_DEFAULT_WINDOW" default:"1m"`
	DefaultIPLimit   int           `envconfig:"FLICKLY_RATE_LIMIT_DEFAULT_IP_LIMIT" default:"100"`
}

type YouTubeConfig struct {
	APIKey   string        `envconfig:"FLICKLY_YOUTUBE_API_KEY"`
	BaseURL  string        `envconfig:"FLICKLY_YOUTUBE_BASE_URL" default:"https://www.googleapis.com"`
	Endpoint string        `envconfig:"FLICKLY_YOUTUBE_API_ENDPOINT" default:"/youtube/v3/search"`
	Timeout  time.Duration `envconfig:"FLICKLY_YOUTUBE_TIMEOUT" default:"10s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FLICKLY_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLICKLY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
