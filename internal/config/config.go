// Package config loads the server configuration from an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the Skillverse server and its collaborators.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `yaml:"port" mapstructure:"port"`
	// StaticDir holds the compiled single-page app.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// TrustedProxies lists the IPs or CIDR ranges of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed. Empty means the
	// TCP peer is always the client.
	TrustedProxies []string `yaml:"trusted_proxies" mapstructure:"trusted_proxies"`

	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Clerk      ClerkConfig      `yaml:"clerk" mapstructure:"clerk"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary" mapstructure:"cloudinary"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Admin      AdminConfig      `yaml:"admin" mapstructure:"admin"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`

	// UpstreamTimeout bounds every call to Gemini and Cloudinary.
	UpstreamTimeout time.Duration `yaml:"upstream_timeout" mapstructure:"upstream_timeout"`
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver" mapstructure:"driver"`
	// URL is a full Postgres connection string. When empty the DSN is built
	// from the discrete host/port/user fields.
	URL      string `yaml:"url" mapstructure:"url"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Name     string `yaml:"name" mapstructure:"name"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
	// Path is the SQLite database file.
	Path string `yaml:"path" mapstructure:"path"`
	// MaxConns caps the Postgres pool.
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
}

type ClerkConfig struct {
	SecretKey         string   `yaml:"secret_key" mapstructure:"secret_key"`
	JWTKey            string   `yaml:"jwt_key" mapstructure:"jwt_key"`
	APIURL            string   `yaml:"api_url" mapstructure:"api_url"`
	AuthorizedParties []string `yaml:"authorized_parties" mapstructure:"authorized_parties"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name" mapstructure:"cloud_name"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	APISecret string `yaml:"api_secret" mapstructure:"api_secret"`
	Folder    string `yaml:"folder" mapstructure:"folder"`
}

type GeminiConfig struct {
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	Model         string `yaml:"model" mapstructure:"model"`
	RatePerMinute int    `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
	// MaxTurns limits the replayed transcript; 0 replays everything.
	MaxTurns int `yaml:"max_turns" mapstructure:"max_turns"`
}

type AdminConfig struct {
	JWTSecret string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// LoginPerMinute limits login attempts per client IP.
	LoginPerMinute int `yaml:"login_per_minute" mapstructure:"login_per_minute"`
	// SecureCookie marks the session cookie Secure; turn off only for plain
	// HTTP development.
	SecureCookie bool `yaml:"secure_cookie" mapstructure:"secure_cookie"`
}

type CacheConfig struct {
	// Type is "memory" or "redis".
	Type      string        `yaml:"type" mapstructure:"type"`
	RedisURL  string        `yaml:"redis_url" mapstructure:"redis_url"`
	CourseTTL time.Duration `yaml:"course_ttl" mapstructure:"course_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

const minAdminSecretLen = 16

// Load reads configuration. path may be empty, in which case only .env and
// the environment are consulted. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.CORSOrigins = splitList(c.CORSOrigins)
	c.TrustedProxies = splitList(c.TrustedProxies)
	c.Clerk.AuthorizedParties = splitList(c.Clerk.AuthorizedParties)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3001)
	v.SetDefault("static_dir", "web/dist")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("upstream_timeout", 30*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("database.path", "data/skillverse.db")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("clerk.secret_key", "")
	v.SetDefault("clerk.jwt_key", "")
	v.SetDefault("clerk.api_url", "https://api.clerk.com/v1")
	v.SetDefault("clerk.authorized_parties", []string{})

	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")
	v.SetDefault("cloudinary.folder", "skillverse")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.rate_per_minute", 20)
	v.SetDefault("gemini.max_turns", 0)

	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", 8*time.Hour)
	v.SetDefault("admin.login_per_minute", 10)
	v.SetDefault("admin.secure_cookie", true)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.course_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindLegacyEnv maps the discrete DB_* variables used by existing
// deployments onto the database section.
func bindLegacyEnv(v *viper.Viper) {
	for key, env := range map[string]string{
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
		"database.sslmode":  "DB_SSLMODE",
	} {
		_ = v.BindEnv(key, env)
	}
}

// splitList flattens comma-separated entries, which is what a list looks
// like when it comes from a single environment variable.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks values that would make the server unusable. Optional
// integrations with missing credentials are not errors; they are reported
// by the Enabled helpers and switched off.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("database.url or DB_HOST is required for the postgres driver")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when cache.type is redis")
		}
	default:
		return fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}

	if c.Admin.JWTSecret != "" && len(c.Admin.JWTSecret) < minAdminSecretLen {
		return fmt.Errorf("admin.jwt_secret must be at least %d characters", minAdminSecretLen)
	}
	if c.Gemini.MaxTurns < 0 {
		return fmt.Errorf("gemini.max_turns must not be negative")
	}
	return nil
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) ClerkEnabled() bool { return c.Clerk.JWTKey != "" }

// ClerkProfileEnabled reports whether user profiles can be fetched from the
// Clerk Backend API.
func (c *Config) ClerkProfileEnabled() bool { return c.Clerk.SecretKey != "" }

func (c *Config) CloudinaryEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}

func (c *Config) GeminiEnabled() bool { return c.Gemini.APIKey != "" }

func (c *Config) AdminEnabled() bool { return c.Admin.JWTSecret != "" }

// Addr is the listen address derived from Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
