package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Razorpay     RazorpayConfig
	Storage      StorageConfig
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
	Env          string `envconfig:"CAMPUSMART_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CAMPUSMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSMART_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"CAMPUSMART_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSMART_DB_DSN"`
	Driver string `envconfig:"CAMPUSMART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CAMPUSMART_DB_HOST"`
	Port     int    `envconfig:"CAMPUSMART_DB_PORT" default:"5432"`
	User     string `envconfig:"CAMPUSMART_DB_USER"`
	Password string `envconfig:"CAMPUSMART_DB_PASSWORD"`
	Name     string `envconfig:"CAMPUSMART_DB_NAME"`
	SSLMode  string `envconfig:"CAMPUSMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from discrete fields when one is not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name are required")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSMART_REDIS_URL"`
	Address      string        `envconfig:"CAMPUSMART_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdentityConfig describes the external identity provider whose bearer tokens
// this backend verifies. The provider signs access tokens with a shared HS256
// secret; we mirror minimal profile state locally.
type IdentityConfig struct {
	JWTSecret          string `envconfig:"CAMPUSMART_IDENTITY_JWT_SECRET" required:"true"`
	Issuer             string `envconfig:"CAMPUSMART_IDENTITY_ISSUER" required:"true"`
	AllowedEmailDomain string `envconfig:"CAMPUSMART_IDENTITY_ALLOWED_EMAIL_DOMAIN" default:"gmail.com"`
}

// RazorpayConfig carries gateway credentials and the deployment currency.
type RazorpayConfig struct {
	KeyID         string        `envconfig:"CAMPUSMART_RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"CAMPUSMART_RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string        `envconfig:"CAMPUSMART_RAZORPAY_WEBHOOK_SECRET" required:"true"`
	Currency      string        `envconfig:"CAMPUSMART_RAZORPAY_CURRENCY" default:"INR"`
	Timeout       time.Duration `envconfig:"CAMPUSMART_RAZORPAY_TIMEOUT" default:"10s"`
	EventTTL      time.Duration `envconfig:"CAMPUSMART_RAZORPAY_EVENT_TTL" default:"720h"`
}

// StorageConfig points at the S3-compatible bucket used for listing images.
type StorageConfig struct {
	Endpoint        string        `envconfig:"CAMPUSMART_STORAGE_ENDPOINT" required:"true"`
	Region          string        `envconfig:"CAMPUSMART_STORAGE_REGION" default:"auto"`
	Bucket          string        `envconfig:"CAMPUSMART_STORAGE_BUCKET" required:"true"`
	AccessKeyID     string        `envconfig:"CAMPUSMART_STORAGE_ACCESS_KEY" required:"true"`
	SecretAccessKey string        `envconfig:"CAMPUSMART_STORAGE_SECRET_KEY" required:"true"`
	PublicBaseURL   string        `envconfig:"CAMPUSMART_STORAGE_PUBLIC_URL" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"CAMPUSMART_STORAGE_UPLOAD_URL_EXPIRY" default:"5m"`
	MaxUploadBytes  int64         `envconfig:"CAMPUSMART_STORAGE_MAX_UPLOAD_BYTES" default:"5242880"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSMART_AUTO_MIGRATE" default:"false"`
}
