// Package config resolves CLI settings from the environment, an optional
// .env file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/internal/handshake"
	"github.com/zkp2p/peer-cli/pkg/extension"
)

// Environment variable names.
const (
	EnvBridgeURL      = "PEER_BRIDGE_URL"
	EnvInstallURL     = "PEER_INSTALL_URL"
	EnvToken          = "PEER_TOKEN"
	EnvConnectTimeout = "PEER_CONNECT_TIMEOUT"
	EnvStatusInterval = "PEER_STATUS_INTERVAL"
	EnvDetectAttempts = "PEER_DETECT_ATTEMPTS"
	EnvDetectDelay    = "PEER_DETECT_DELAY"
	EnvStrictStatus   = "PEER_STRICT_STATUS"
)

// Config holds every setting the commands need.
type Config struct {
	BridgeURL  string
	InstallURL string
	Token      string

	// ConnectTimeout bounds the wait for an approved connection.
	ConnectTimeout time.Duration
	// WaitInterval is the poll period while waiting for approval.
	WaitInterval   time.Duration
	StatusInterval time.Duration
	DetectAttempts int
	DetectDelay    time.Duration
	StrictStatus   bool

	problems []string
}

// LoadDotEnv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		pterm.Debug.Printf("Could not load .env: %v\n", err)
	}
}

// Load builds a Config from the environment. Malformed values fall back to
// their defaults and are reported by Validate.
func Load() *Config {
	cfg := &Config{
		BridgeURL:      getEnvOrDefault(EnvBridgeURL, extension.DefaultBridgeURL),
		InstallURL:     getEnvOrDefault(EnvInstallURL, extension.DefaultInstallURL),
		WaitInterval:   handshake.DefaultWaitInterval,
		DetectAttempts: handshake.DefaultDetectAttempts,
	}

	cfg.ConnectTimeout = cfg.duration(EnvConnectTimeout, handshake.DefaultWaitTimeout)
	cfg.StatusInterval = cfg.duration(EnvStatusInterval, handshake.DefaultPollInterval)
	cfg.DetectDelay = cfg.duration(EnvDetectDelay, handshake.DefaultDetectDelay)

	if v := os.Getenv(EnvDetectAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			cfg.problems = append(cfg.problems, fmt.Sprintf("%s: %q is not an integer", EnvDetectAttempts, v))
		} else {
			cfg.DetectAttempts = n
		}
	}
	if v := os.Getenv(EnvStrictStatus); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			cfg.problems = append(cfg.problems, fmt.Sprintf("%s: %q is not a boolean", EnvStrictStatus, v))
		}
		cfg.StrictStatus = strict
	}

	cfg.Token = os.Getenv(EnvToken)
	if cfg.Token == "" {
		token, err := LoadToken()
		if err != nil {
			pterm.Debug.Printf("Could not read pairing token from keyring: %v\n", err)
		}
		cfg.Token = token
	}
	return cfg
}

func (c *Config) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}

// Policy maps StrictStatus to the unknown-status rule.
func (c *Config) Policy() extension.UnknownStatusPolicy {
	if c.StrictStatus {
		return extension.Strict
	}
	return extension.Permissive
}

// Validate reports every problem found at once.
func (c *Config) Validate() error {
	errs := append([]string(nil), c.problems...)

	if err := checkURL(c.BridgeURL); err != nil {
		errs = append(errs, fmt.Sprintf("bridge url: %v", err))
	}
	if err := checkURL(c.InstallURL); err != nil {
		errs = append(errs, fmt.Sprintf("install url: %v", err))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, "connect timeout must be positive")
	}
	if c.WaitInterval <= 0 {
		errs = append(errs, "wait interval must be positive")
	}
	if c.StatusInterval <= 0 {
		errs = append(errs, "status interval must be positive")
	}
	if c.DetectAttempts <= 0 {
		errs = append(errs, "detect attempts must be positive")
	}
	if c.DetectDelay <= 0 {
		errs = append(errs, "detect delay must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q must be an absolute URL", raw)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
