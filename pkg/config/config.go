package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Checkout      CheckoutConfig
	License       LicenseConfig
	AuthRateLimit AuthRateLimitConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.Rate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAFARLE_APP_ENV" required:"true"`
	Port         string `envconfig:"WAFARLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WAFARLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAFARLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WAFARLE_DB_DSN"`
	Driver string `envconfig:"WAFARLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WAFARLE_DB_HOST"`
	LegacyPort     int    `envconfig:"WAFARLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WAFARLE_DB_USER"`
	LegacyPassword string `envconfig:"WAFARLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WAFARLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WAFARLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAFARLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAFARLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAFARLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAFARLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAFARLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WAFARLE_REDIS_ADDR"`
	Password     string        `envconfig:"WAFARLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAFARLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAFARLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAFARLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAFARLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAFARLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAFARLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WAFARLE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WAFARLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"WAFARLE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"WAFARLE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WAFARLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WAFARLE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WAFARLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WAFARLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WAFARLE_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig carries the order-total policy. The flat shipping fee is
// charged once per checkout when the cart holds at least one physical item.
type CheckoutConfig struct {
	ShippingFeeCents int    `envconfig:"WAFARLE_CHECKOUT_SHIPPING_FEE_CENTS" default:"5000"`
	TaxRate          string `envconfig:"WAFARLE_CHECKOUT_TAX_RATE" default:"0.15"`
}

// Rate parses the configured VAT rate.
func (c CheckoutConfig) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax rate %q: %w", c.TaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("tax rate %q out of range", c.TaxRate)
	}
	return rate, nil
}

type LicenseConfig struct {
	VerifyCacheTTL time.Duration `envconfig:"WAFARLE_LICENSE_VERIFY_CACHE_TTL" default:"1h"`
	ExpirySoonDays int           `envconfig:"WAFARLE_LICENSE_EXPIRY_SOON_DAYS" default:"30"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WAFARLE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WAFARLE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WAFARLE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WAFARLE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WAFARLE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WAFARLE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"WAFARLE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"WAFARLE_CRON_LOCK_TTL" default:"50m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WAFARLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WAFARLE_AUTO_MIGRATE" default:"false"`
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
