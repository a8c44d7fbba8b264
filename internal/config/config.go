package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address        string        `yaml:"address"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		IdleTimeout    time.Duration `yaml:"idle_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		Debug          bool          `yaml:"debug"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Session struct {
		Backend       string        `yaml:"backend"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
		CookieName    string        `yaml:"cookie_name"`
		Secure        bool          `yaml:"secure"`
		SigningKey    string        `yaml:"signing_key"`
	} `yaml:"session"`
	CSRF struct {
		AuthKey string `yaml:"auth_key"`
		Secure  bool   `yaml:"secure"`
	} `yaml:"csrf"`
	Uploads struct {
		Backend       string `yaml:"backend"`
		Dir           string `yaml:"dir"`
		BaseURL       string `yaml:"base_url"`
		MaxBytes      int64  `yaml:"max_bytes"`
		S3Bucket      string `yaml:"s3_bucket"`
		S3Region      string `yaml:"s3_region"`
		S3Endpoint    string `yaml:"s3_endpoint"`
		S3AccessKey   string `yaml:"s3_access_key"`
		S3SecretKey   string `yaml:"s3_secret_key"`
		S3PublicURL   string `yaml:"s3_public_url"`
		CloudinaryURL string `yaml:"cloudinary_url"`
		Folder        string `yaml:"folder"`
	} `yaml:"uploads"`
	Favorites struct {
		StalePolicy string `yaml:"stale_policy"`
	} `yaml:"favorites"`
}

// Default returns a configuration that runs locally against SQLite with
// in-memory sessions and local uploads.
func Default() Config {
	var cfg Config
	cfg.Server.Address = ":4001"
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.IdleTimeout = time.Minute
	cfg.Database.Driver = "sqlite3"
	cfg.Database.URL = "rentals.db?_foreign_keys=on"
	cfg.Session.Backend = "memory"
	cfg.Session.RedisAddr = "localhost:6379"
	cfg.Session.TTL = 14 * 24 * time.Hour
	cfg.Session.CookieName = "sessionid"
	cfg.Uploads.Backend = "local"
	cfg.Uploads.Dir = "media"
	cfg.Uploads.BaseURL = "/media"
	cfg.Uploads.MaxBytes = 5 << 20
	cfg.Favorites.StalePolicy = "keep"
	return cfg
}

// LoadConfig reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config data: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("SERVER_ADDRESS", &cfg.Server.Address)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Address = ":" + port
	}
	str("DATABASE_DRIVER", &cfg.Database.Driver)
	str("DATABASE_URL", &cfg.Database.URL)
	str("SESSION_BACKEND", &cfg.Session.Backend)
	str("REDIS_ADDR", &cfg.Session.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Session.RedisPassword)
	str("SESSION_SIGNING_KEY", &cfg.Session.SigningKey)
	str("CSRF_AUTH_KEY", &cfg.CSRF.AuthKey)
	str("UPLOADS_BACKEND", &cfg.Uploads.Backend)
	str("UPLOADS_DIR", &cfg.Uploads.Dir)
	str("S3_BUCKET", &cfg.Uploads.S3Bucket)
	str("S3_REGION", &cfg.Uploads.S3Region)
	str("S3_ENDPOINT", &cfg.Uploads.S3Endpoint)
	str("S3_ACCESS_KEY", &cfg.Uploads.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.Uploads.S3SecretKey)
	str("CLOUDINARY_URL", &cfg.Uploads.CloudinaryURL)
	str("FAVORITES_STALE_POLICY", &cfg.Favorites.StalePolicy)

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Session.RedisDB = n
	}
	if v, ok := os.LookupEnv("SESSION_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SESSION_SECURE: %w", err)
		}
		cfg.Session.Secure = b
		cfg.CSRF.Secure = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("config: database url is required")
	}
	switch c.Session.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	if c.Session.SigningKey == "" {
		return errors.New("config: session signing key is required")
	}
	if len(c.CSRF.AuthKey) != 32 {
		return errors.New("config: csrf auth key must be 32 bytes")
	}
	switch c.Uploads.Backend {
	case "local", "s3", "cloudinary":
	default:
		return fmt.Errorf("config: unknown uploads backend %q", c.Uploads.Backend)
	}
	switch c.Favorites.StalePolicy {
	case "keep", "prune":
	default:
		return fmt.Errorf("config: unknown favorites stale policy %q", c.Favorites.StalePolicy)
	}
	return nil
}
