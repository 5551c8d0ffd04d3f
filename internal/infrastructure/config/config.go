// Package config loads and validates the vault's runtime configuration from
// environment variables.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// CipherAES256CBC is the only cipher the vault supports for secrets at rest.
// The knob exists so a future algorithm migration can be staged behind
// configuration; any other value is refused at startup.
const CipherAES256CBC = "aes-256-cbc"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=24h"`

	// VaultMasterKey is the passphrase the AES key is derived from. The
	// process refuses to start without it.
	VaultMasterKey  string `env:"VAULT_MASTER_KEY"`
	CipherAlgorithm string `env:"CIPHER_ALGORITHM, default=aes-256-cbc"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Throttle ThrottleConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cofre"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ThrottleConfig struct {
	MaxAttempts   int64         `env:"LOGIN_MAX_ATTEMPTS,    default=5"`
	AttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW,  default=15m"`
}

// Load reads configuration from environment variables using go-envconfig and
// fails fast on anything the vault cannot run without.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.VaultMasterKey == "" {
		return fmt.Errorf("VAULT_MASTER_KEY is required")
	}
	if c.CipherAlgorithm != CipherAES256CBC {
		return fmt.Errorf("unsupported CIPHER_ALGORITHM %q: only %s is supported", c.CipherAlgorithm, CipherAES256CBC)
	}
	if c.Throttle.MaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
