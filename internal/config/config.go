// Package config loads the daemon's environment configuration and the
// operator-editable policy file.
package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-based configuration for pushmfa.
type Config struct {
	// NAS connection. These four may be left empty: the daemon starts
	// unconfigured and reports the factor as unavailable until they
	// are set.
	NasURL          string `env:"NAS_URL"`
	NasClientID     string `env:"NAS_CLIENT_ID"`
	NasClientSecret string `env:"NAS_CLIENT_SECRET"`
	NasServiceID    string `env:"NAS_SERVICE_ID"`

	// Endpoint announced inside onboarding QR codes. Defaults to
	// NAS_URL when empty.
	NasServiceDomain string `env:"NAS_SERVICE_DOMAIN"`

	// Inbound API.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8391"`

	// bcrypt hash of the API key the host presents on every request.
	// Generate with the hash-key subcommand.
	HostAPIKeyHash string `env:"HOST_API_KEY_HASH"`

	// Token cache backend: "bolt" (default) or "redis".
	TokenBackend string `env:"TOKEN_BACKEND" envDefault:"bolt"`
	RedisAddr    string `env:"REDIS_ADDR"`

	// Path to the bbolt state database. Defaults to ~/.pushmfa/state.db.
	StatePath string `env:"STATE_PATH"`

	// Optional YAML policy file, reloaded on change.
	PolicyFile string `env:"POLICY_FILE"`

	// Whether users may edit their own onboarding phone and secret.
	// The policy file can override this.
	EnableSelfService bool `env:"ENABLE_SELF_SERVICE" envDefault:"false"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing credentials to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.NasURL = strings.TrimRight(cfg.NasURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HostAPIKeyHash == "" {
		return fmt.Errorf("HOST_API_KEY_HASH is required (generate with the hash-key subcommand)")
	}

	switch c.TokenBackend {
	case "bolt":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_BACKEND is redis")
		}
	default:
		return fmt.Errorf("TOKEN_BACKEND must be \"bolt\" or \"redis\", got %q", c.TokenBackend)
	}

	return nil
}

// Ready reports whether the NAS connection is fully configured. An
// unconfigured daemon serves the API but reports the factor as
// unavailable for every user.
func (c *Config) Ready() bool {
	return c.NasURL != "" && c.NasClientID != "" && c.NasClientSecret != "" && c.NasServiceID != ""
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
