package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey  string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	RiskFanOut     int      `mapstructure:"RISK_FAN_OUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("RISK_FAN_OUT", 8)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("RISK_FAN_OUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT signing key must be configured so real authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required when ENV is %q", c.Env)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RiskFanOut < 1 {
		return fmt.Errorf("RISK_FAN_OUT must be at least 1, got %d", c.RiskFanOut)
	}
	return nil
}
