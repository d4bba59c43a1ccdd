package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN         string `yaml:"url"`
		AutoMigrate bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // local only
		BaseURL    string `yaml:"base_url"`    // public URL prefix
		Bucket     string `yaml:"bucket"`      // s3/r2
		Region     string `yaml:"region"`      // s3
		AccessKey  string `yaml:"access_key"`  // s3/r2
		SecretKey  string `yaml:"secret_key"`  // s3/r2
		Endpoint   string `yaml:"endpoint"`    // r2 or custom s3
		UseSSL     bool   `yaml:"use_ssl"`     // s3/r2
		PublicRead bool   `yaml:"public_read"` // objects readable without signature
		SigningKey string `yaml:"signing_key"` // local signed URLs
	} `yaml:"storage"`

	Upload struct {
		DocumentMaxSize      int64    `yaml:"document_max_size"`
		DocumentAllowedTypes []string `yaml:"document_allowed_types"`
		AvatarMaxSize        int64    `yaml:"avatar_max_size"`
		AvatarAllowedTypes   []string `yaml:"avatar_allowed_types"`
		AvatarDimension      int      `yaml:"avatar_dimension"`
		ImageQuality         int      `yaml:"image_quality"`
	} `yaml:"upload"`

	Delivery struct {
		SignedURLExpiry string `yaml:"signed_url_expiry"` // Go duration, e.g. "1h"
		ProxyTimeout    string `yaml:"proxy_timeout"`     // Go duration, 0 = none
	} `yaml:"delivery"`

	Applications struct {
		StrictStatusTransitions bool `yaml:"strict_status_transitions"`
	} `yaml:"applications"`

	RateLimit struct {
		Enabled       bool   `yaml:"enabled"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		ApplyLimit    int    `yaml:"apply_limit"`
		AuthLimit     int    `yaml:"auth_limit"`
		Window        string `yaml:"window"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

var AppConfig *Config

// LoadConfig fills AppConfig or stops the process.
// A .env file is read first when present. With DATABASE_URL set the whole
// config comes from the environment, otherwise from CONFIG_PATH
// (default config/config.yaml).
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	if os.Getenv("DATABASE_URL") != "" {
		AppConfig = FromEnv()
		return
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	AppConfig = cfg
}

// Load reads a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}

	overrideFromEnv(&cfg)
	cfg.applyDefaults()
	return &cfg, nil
}

// FromEnv builds the config from environment variables only.
func FromEnv() *Config {
	var cfg Config
	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.AutoMigrate = true
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	overrideFromEnv(&cfg)
	cfg.applyDefaults()
	return &cfg
}

// overrideFromEnv lets secrets live outside the YAML file.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_SIGNING_KEY"); v != "" {
		cfg.Storage.SigningKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RateLimit.RedisAddr = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 7 * 24 * 60
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type == "local" && c.Storage.BasePath == "" {
		c.Storage.BasePath = "./uploads"
	}
	if c.Storage.SigningKey == "" {
		c.Storage.SigningKey = c.JWT.Secret
	}

	if c.Upload.DocumentMaxSize <= 0 {
		c.Upload.DocumentMaxSize = 10 << 20
	}
	if len(c.Upload.DocumentAllowedTypes) == 0 {
		c.Upload.DocumentAllowedTypes = []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		}
	}
	if c.Upload.AvatarMaxSize <= 0 {
		c.Upload.AvatarMaxSize = 5 << 20
	}
	if len(c.Upload.AvatarAllowedTypes) == 0 {
		c.Upload.AvatarAllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if c.Upload.AvatarDimension <= 0 {
		c.Upload.AvatarDimension = 200
	}
	if c.Upload.ImageQuality <= 0 || c.Upload.ImageQuality > 100 {
		c.Upload.ImageQuality = 85
	}

	if c.Delivery.SignedURLExpiry == "" {
		c.Delivery.SignedURLExpiry = "1h"
	}

	if c.RateLimit.ApplyLimit <= 0 {
		c.RateLimit.ApplyLimit = 30
	}
	if c.RateLimit.AuthLimit <= 0 {
		c.RateLimit.AuthLimit = 20
	}
	if c.RateLimit.Window == "" {
		c.RateLimit.Window = "1h"
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
}

// SignedURLTTL is the lifetime of minted document URLs. Falls back to 1h.
func (c *Config) SignedURLTTL() time.Duration {
	return parseDuration(c.Delivery.SignedURLExpiry, time.Hour)
}

// ProxyTimeout bounds one proxied download. Zero means no bound beyond the
// request context.
func (c *Config) ProxyTimeout() time.Duration {
	return parseDuration(c.Delivery.ProxyTimeout, 0)
}

func (c *Config) RateLimitWindow() time.Duration {
	return parseDuration(c.RateLimit.Window, time.Hour)
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
