package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Rate limiter backends for the password-reset flow.
const (
	RateLimiterMemory = "memory"
	RateLimiterRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Reset    ResetConfig    `env:",prefix=RESET_"`
	SMTP     SMTPConfig     `env:",prefix=SMTP_"`
	Google   GoogleConfig   `env:",prefix=GOOGLE_"`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Security SecurityConfig `env:",prefix="`

	// ClientURL is the SPA base address used to build reset links.
	ClientURL string `env:"CLIENT_URL,default=http://localhost:3000"`
	Env       string `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host           string `env:"HOST,default=localhost"`
	Port           string `env:"PORT,default=5432"`
	User           string `env:"USER,default=cropsight"`
	Password       string `env:"PASSWORD,default=cropsight_password"`
	DBName         string `env:"DB,default=cropsight_auth"`
	SSLMode        string `env:"SSLMODE,default=disable"`
	MigrationsPath string `env:"MIGRATIONS_PATH,default=migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret string `env:"SECRET,required"`
	// SessionExpiry is the fixed validity window of a session token.
	SessionExpiry Duration `env:"SESSION_EXPIRY,default=7d"`
}

// ResetConfig bounds the password-reset token lifecycle.
type ResetConfig struct {
	TokenExpiry       Duration `env:"TOKEN_EXPIRY,default=1h"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=3"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=60s"`
	// LimiterBackend selects the rate-limit store: "memory" keeps the window
	// process-local, "redis" shares it across instances.
	LimiterBackend string `env:"RATE_LIMITER_BACKEND,default=memory"`
}

type SMTPConfig struct {
	Host        string   `env:"HOST,default=localhost"`
	Port        int      `env:"PORT,default=587"`
	Username    string   `env:"USERNAME,default="`
	Password    string   `env:"PASSWORD,default="`
	From        string   `env:"FROM,default=Crop Price Predictor <no-reply@cropsight.io>"`
	SendTimeout Duration `env:"SEND_TIMEOUT,default=10s"`
}

type GoogleConfig struct {
	UserInfoURL string   `env:"USERINFO_URL,default=https://www.googleapis.com/oauth2/v3/userinfo"`
	Timeout     Duration `env:"TIMEOUT,default=10s"`
}

type SecurityConfig struct {
	BCryptCost int `env:"BCRYPT_COST,default=12"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// URL returns the PostgreSQL connection URL used by the migration runner.
func (p PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	switch config.Reset.LimiterBackend {
	case RateLimiterMemory, RateLimiterRedis:
	default:
		return nil, fmt.Errorf("unknown rate limiter backend %q", config.Reset.LimiterBackend)
	}

	return &config, nil
}
