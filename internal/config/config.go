package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "volunteer"

// Reset token delivery channels.
const (
	DeliveryLog   = "log"
	DeliveryRedis = "redis"
	DeliveryNATS  = "nats"
)

type Config struct {
	HTTPAddr          string        `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	DBConnectAttempts int           `envconfig:"DB_CONNECT_ATTEMPTS" default:"10"`
	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ResetTokenTTL     time.Duration `envconfig:"RESET_TOKEN_TTL" default:"15m"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"10"`
	SessionCookie     string        `envconfig:"SESSION_COOKIE" default:"session"`
	CookieSecure      bool          `envconfig:"COOKIE_SECURE" default:"false"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON           bool          `envconfig:"LOG_JSON" default:"false"`
	ResetDelivery     string        `envconfig:"RESET_DELIVERY" default:"log"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	NATSURL           string        `envconfig:"NATS_URL"`
}

// Load reads VOLUNTEER_* environment variables once at startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.SessionTTL <= 0 || c.ResetTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.DBConnectAttempts < 1 {
		c.DBConnectAttempts = 1
	}

	switch c.ResetDelivery {
	case DeliveryLog:
	case DeliveryRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when RESET_DELIVERY=redis")
		}
	case DeliveryNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when RESET_DELIVERY=nats")
		}
	default:
		return fmt.Errorf("unknown RESET_DELIVERY %q", c.ResetDelivery)
	}
	return nil
}
