package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration

	StorageDriver   string // mysql|memory
	MySQLDSN        string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	DBAutoMigrate   bool
	DBSlowThreshold time.Duration

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	// hotelctl
	BaseURL string
	RPS     float64
	Workers int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9100")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("STORAGE_DRIVER", "mysql")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&loc=UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_SLOW_THRESHOLD", "500ms")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("HOTELCTL_BASE_URL", "http://localhost:8080")
	v.SetDefault("HOTELCTL_RPS", 10.0)
	v.SetDefault("HOTELCTL_WORKERS", 4)
}

// Load reads configuration from the environment, after an optional .env file.
// Variables already present in the environment win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromViper(NewViper())
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		AppEnv:          v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MySQLDSN:        v.GetString("MYSQL_DSN"),
		DBMaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnLifetime:  v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBAutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		DBSlowThreshold: v.GetDuration("DB_SLOW_THRESHOLD"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPass:       v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CacheTTL:        time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		BaseURL:         strings.TrimRight(v.GetString("HOTELCTL_BASE_URL"), "/"),
		RPS:             v.GetFloat64("HOTELCTL_RPS"),
		Workers:         v.GetInt("HOTELCTL_WORKERS"),
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case "mysql":
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required when STORAGE_DRIVER=mysql")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("HOTELCTL_WORKERS must be positive")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("HOTELCTL_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" }
