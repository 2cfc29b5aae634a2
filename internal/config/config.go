// Package config loads the service configuration from the environment (and an optional
// .env file) through viper.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
	Contact  ContactConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver string // postgres, sqlite or memory
	DSN    string
}

// StorageConfig selects the object store and its buckets.
type StorageConfig struct {
	Driver         string // minio, cloudinary or memory
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	PublicBaseURL  string
	CloudinaryURL  string
	ProductBucket  string
	BlogBucket     string
}

// CacheConfig configures the listing cache. An empty RedisAddr selects the in-process cache.
type CacheConfig struct {
	// Driver is auto, redis, memory or none. auto picks redis when REDIS_ADDR is set,
	// memory when RABBITMQ_URL is set (change events keep instances in step), none otherwise.
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// RabbitMQConfig configures catalogue change events. An empty URL disables them.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AuthConfig holds JWT settings and the bootstrap admin account.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// ContactConfig holds the contact form stub settings.
type ContactConfig struct {
	SimulatedDelay time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=atelier port=5432 sslmode=disable")
	v.SetDefault("STORAGE_DRIVER", "minio")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("STORAGE_PUBLIC_URL", "")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("PRODUCT_BUCKET", "product-images")
	v.SetDefault("BLOG_BUCKET", "blog-images")
	v.SetDefault("CACHE_DRIVER", "auto")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalogue")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@atelier.local")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CONTACT_DELAY", "1s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is fine, the process environment is used as is.
	_ = godotenv.Load(".env")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("APP_PORT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Storage: StorageConfig{
			Driver:         v.GetString("STORAGE_DRIVER"),
			MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicBaseURL:  v.GetString("STORAGE_PUBLIC_URL"),
			CloudinaryURL:  v.GetString("CLOUDINARY_URL"),
			ProductBucket:  v.GetString("PRODUCT_BUCKET"),
			BlogBucket:     v.GetString("BLOG_BUCKET"),
		},
		Cache: CacheConfig{
			Driver:        v.GetString("CACHE_DRIVER"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			TTL:           v.GetDuration("CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      v.GetDuration("TOKEN_TTL"),
			AdminUsername: v.GetString("ADMIN_USERNAME"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Contact: ContactConfig{
			SimulatedDelay: v.GetDuration("CONTACT_DELAY"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheBackend resolves the auto cache driver against the rest of the configuration.
func (c *Config) CacheBackend() string {
	if c.Cache.Driver != "auto" {
		return c.Cache.Driver
	}
	switch {
	case c.Cache.RedisAddr != "":
		return "redis"
	case c.RabbitMQ.URL != "":
		return "memory"
	default:
		return "none"
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %s", c.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case "minio":
		if c.Storage.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for storage driver minio")
		}
	case "cloudinary":
		if c.Storage.CloudinaryURL == "" {
			return fmt.Errorf("CLOUDINARY_URL is required for storage driver cloudinary")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Cache.Driver {
	case "auto", "memory", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for cache driver redis")
		}
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}

	if c.Storage.ProductBucket == "" || c.Storage.BlogBucket == "" {
		return fmt.Errorf("PRODUCT_BUCKET and BLOG_BUCKET are required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
