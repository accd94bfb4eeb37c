// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is parsed once at start and passed by reference
type Config struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"production"`
	Port              int           `env:"PORT" envDefault:"5000"`
	DatabaseURL       string        `env:"DATABASE_URL" envDefault:"file:auth.db?cache=shared"`
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTIssuer         string        `env:"JWT_ISSUER"`
	JWTAudience       []string      `env:"JWT_AUDIENCE" envSeparator:","`
	GoogleUserInfoURL string        `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`
	GoogleTimeout     time.Duration `env:"GOOGLE_TIMEOUT" envDefault:"10s"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"10"`
	CORSAllowOrigins  string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RoutePrefix       string        `env:"AUTH_ROUTE_PREFIX" envDefault:"/api/auth"`
	HashIDs           bool          `env:"AUTH_HASHID_IDS" envDefault:"false"`
	Debug             bool          `env:"AUTH_DEBUG" envDefault:"false"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.RoutePrefix = "/" + strings.Trim(strings.TrimSpace(c.RoutePrefix), "/")
	if c.RoutePrefix == "/" {
		c.RoutePrefix = ""
	}

	audience := c.JWTAudience[:0]
	for _, aud := range c.JWTAudience {
		if aud = strings.TrimSpace(aud); aud != "" {
			audience = append(audience, aud)
		}
	}
	c.JWTAudience = audience
}

// Address is the listen address
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetSigningKey implements auth.Config
func (c *Config) GetSigningKey() string {
	return c.JWTSecret
}

// GetIssuer implements auth.Config
func (c *Config) GetIssuer() string {
	return c.JWTIssuer
}

// GetAudience implements auth.Config
func (c *Config) GetAudience() []string {
	return c.JWTAudience
}

// GetRoutePrefix implements auth.Config
func (c *Config) GetRoutePrefix() string {
	return c.RoutePrefix
}

// IsDevelopment implements auth.Config
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// IsDebug implements auth.Config
func (c *Config) IsDebug() bool {
	return c.Debug
}
