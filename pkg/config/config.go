package config

import (
	"fmt"
	"net/url"
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
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Uploads       UploadsConfig
	Twilio        TwilioConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() && cfg.FeatureFlags.UseSQLite {
		return nil, fmt.Errorf("WARDROP_USE_SQLITE is not allowed in %s", cfg.App.Env)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WARDROP_APP_ENV" required:"true"`
	Port         string `envconfig:"WARDROP_APP_PORT" required:"true"`
	Name         string `envconfig:"WARDROP_APP_NAME" default:"Wardrop"`
	LogLevel     string `envconfig:"WARDROP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WARDROP_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"WARDROP_LOG_FORMAT" default:"json"`
	Timezone     string `envconfig:"WARDROP_APP_TIMEZONE" default:"Africa/Algiers"`
	Currency     string `envconfig:"WARDROP_APP_CURRENCY" default:"DZD"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the business time zone that defines calendar days.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimezone, name, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN    string `envconfig:"WARDROP_DB_DSN"`
	Driver string `envconfig:"WARDROP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WARDROP_DB_HOST"`
	LegacyPort     int    `envconfig:"WARDROP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WARDROP_DB_USER"`
	LegacyPassword string `envconfig:"WARDROP_DB_PASSWORD"`
	LegacyName     string `envconfig:"WARDROP_DB_NAME"`
	LegacySSLMode  string `envconfig:"WARDROP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WARDROP_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WARDROP_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WARDROP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WARDROP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WARDROP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WARDROP_REDIS_ADDR"`
	Password     string        `envconfig:"WARDROP_REDIS_PASSWORD"`
	DB           int           `envconfig:"WARDROP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WARDROP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WARDROP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WARDROP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WARDROP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WARDROP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WARDROP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WARDROP_JWT_ISSUER" default:"wardrop"`
	ExpirationMinutes      int    `envconfig:"WARDROP_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"WARDROP_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WARDROP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WARDROP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WARDROP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WARDROP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WARDROP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WARDROP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WARDROP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WARDROP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WARDROP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WARDROP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WARDROP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

// RateLimitConfig throttles the whole API per client IP.
type RateLimitConfig struct {
	Disabled bool          `envconfig:"WARDROP_RATE_LIMIT_DISABLED" default:"false"`
	Requests int           `envconfig:"WARDROP_RATE_LIMIT_REQUESTS" default:"300"`
	Window   time.Duration `envconfig:"WARDROP_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WARDROP_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WARDROP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WARDROP_AUTO_MIGRATE" default:"false"`
}

type UploadsConfig struct {
	Dir               string   `envconfig:"WARDROP_UPLOAD_DIR" default:"uploads"`
	PublicPrefix      string   `envconfig:"WARDROP_UPLOAD_PUBLIC_PREFIX" default:"/uploads"`
	MaxFileSizeMB     int      `envconfig:"WARDROP_UPLOAD_MAX_FILE_MB" default:"10"`
	AllowedExtensions []string `envconfig:"WARDROP_UPLOAD_ALLOWED_EXTENSIONS" default:"jpg,jpeg,png,webp"`
	MaxImageDimension int      `envconfig:"WARDROP_UPLOAD_MAX_IMAGE_DIMENSION" default:"1600"`
}

// MaxFileSize returns the per-file upload limit in bytes.
func (u UploadsConfig) MaxFileSize() int64 {
	if u.MaxFileSizeMB <= 0 {
		return 10 << 20
	}
	return int64(u.MaxFileSizeMB) << 20
}

type TwilioConfig struct {
	AccountSID     string        `envconfig:"WARDROP_TWILIO_ACCOUNT_SID"`
	AuthToken      string        `envconfig:"WARDROP_TWILIO_AUTH_TOKEN"`
	PhoneNumber    string        `envconfig:"WARDROP_TWILIO_PHONE_NUMBER"`
	WhatsAppNumber string        `envconfig:"WARDROP_TWILIO_WHATSAPP_NUMBER"`
	BreakerTimeout time.Duration `envconfig:"WARDROP_TWILIO_BREAKER_TIMEOUT" default:"1m"`
}

// Enabled reports whether credentials are present.
func (t TwilioConfig) Enabled() bool {
	return strings.TrimSpace(t.AccountSID) != "" && strings.TrimSpace(t.AuthToken) != ""
}

type CronConfig struct {
	LockKey string `envconfig:"WARDROP_CRON_LOCK_KEY"`
	RunHour int    `envconfig:"WARDROP_CRON_RUN_HOUR" default:"0"`
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
