package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob. Defaults come from the environment
// (a .env file is honored); the CLI flags override on top.
type Config struct {
	Bind        string        // interface for both listeners
	GamePort    int           // line-protocol port players CONNECT to
	HTTPPort    int           // observer API port
	DialTimeout time.Duration // per-delivery dial/write budget
	Seed        int64         // RNG seed; 0 means time-seeded
	LogLevel    string
	LogJSON     bool
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Bind:        getenvStr("SHERLOCK13_BIND", "0.0.0.0"),
		GamePort:    getenvInt("SHERLOCK13_PORT", 32000),
		HTTPPort:    getenvInt("SHERLOCK13_HTTP_PORT", 8080),
		DialTimeout: getenvDuration("SHERLOCK13_DIAL_TIMEOUT", 3*time.Second),
		Seed:        int64(getenvInt("SHERLOCK13_SEED", 0)),
		LogLevel:    getenvStr("SHERLOCK13_LOG_LEVEL", "info"),
		LogJSON:     getenvBool("SHERLOCK13_LOG_JSON", false),
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.GamePort < 1 || c.GamePort > 65535 {
		return fmt.Errorf("invalid game port (must be between 1-65535 inclusive): %d", c.GamePort)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port (must be between 1-65535 inclusive): %d", c.HTTPPort)
	}
	if c.GamePort == c.HTTPPort {
		return fmt.Errorf("game and http ports collide: %d", c.GamePort)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive: %s", c.DialTimeout)
	}
	return nil
}

// GameAddr returns the line-protocol listen address.
func (c *Config) GameAddr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.GamePort))
}

// HTTPAddr returns the observer API listen address.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.HTTPPort))
}

func getenvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
