package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Sale     SaleConfig
	Reports  ReportsConfig
	Seed     SeedConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name      string `envconfig:"APP_NAME" default:"CashierHub API"`
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"3000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

type DBConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Jakarta"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	SlowQuery       time.Duration `envconfig:"DB_SLOW_QUERY" default:"1s"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type HTTPConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000,https://proyek-cashier-hub-backend.vercel.app,https://cashierhub-frontend.vercel.app"`
	BodyLimitMB    int      `envconfig:"HTTP_BODY_LIMIT_MB" default:"10"`

	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"15m"`
	APIRateLimit    int           `envconfig:"API_RATE_LIMIT" default:"100"`
	APIRateWindow   time.Duration `envconfig:"API_RATE_WINDOW" default:"1m"`
}

type RedisConfig struct {
	URL       string `envconfig:"REDIS_URL"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"cashierhub:rl:"`
}

type SaleConfig struct {
	Timeout          time.Duration `envconfig:"SALE_TIMEOUT" default:"10s"`
	TrustClientPrice bool          `envconfig:"SALE_TRUST_CLIENT_PRICE" default:"false"`
}

type ReportsConfig struct {
	LowStockThreshold int `envconfig:"LOW_STOCK_THRESHOLD" default:"20"`
}

type SeedConfig struct {
	AdminUsername string `envconfig:"SEED_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"SEED_ADMIN_PASSWORD" default:"admin123"`
}

type SecurityConfig struct {
	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`
}

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Sale.Timeout <= 0 {
		return errors.New("SALE_TIMEOUT must be positive")
	}
	if c.Reports.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD cannot be negative")
	}
	if c.HTTP.BodyLimitMB <= 0 {
		return errors.New("HTTP_BODY_LIMIT_MB must be positive")
	}
	return nil
}
