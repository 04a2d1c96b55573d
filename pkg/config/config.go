// Package config manages adapter configuration from the environment.
package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/maldrake/boltpool/pkg/bolt"
)

// Environment keys understood by Load.
const (
	KeyAddr           = "BOLT_ADDR"
	KeyDomain         = "BOLT_DOMAIN"
	KeyUser           = "BOLT_USER"
	KeyPass           = "BOLT_PASS"
	KeyUserAgent      = "BOLT_USER_AGENT"
	KeyPoolMax        = "BOLT_POOL_MAX"
	KeyHealthInterval = "BOLT_HEALTH_INTERVAL"
)

// Defaults applied when a key is unset.
const (
	DefaultPoolMax        = 10
	DefaultHealthInterval = 30 * time.Second
)

// Config manages adapter configuration
type Config struct {
	mu     sync.RWMutex
	values map[string]string

	// Keys whose change invalidates existing pools
	restartKeys []string
}

// New creates an empty configuration manager
func New() *Config {
	return &Config{
		values: make(map[string]string),
		restartKeys: []string{
			KeyAddr,
			KeyDomain,
			KeyUser,
			KeyPass,
		},
	}
}

// Load creates a configuration manager populated from the environment.
func Load() *Config {
	c := New()
	values := make(map[string]string)
	for _, key := range []string{KeyAddr, KeyDomain, KeyUser, KeyPass, KeyUserAgent, KeyPoolMax, KeyHealthInterval} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	c.Update(values)
	return c
}

// Get retrieves a configuration value
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetAll returns a copy of all configuration values
func (c *Config) GetAll() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := make(map[string]string, len(c.values))
	for k, v := range c.values {
		copied[k] = v
	}
	return copied
}

// Update updates configuration values
func (c *Config) Update(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range values {
		c.values[k] = v
	}
}

// RequiresRestart checks if any changed keys invalidate existing pools
func (c *Config) RequiresRestart(oldConfig map[string]string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, key := range c.restartKeys {
		if oldConfig[key] != c.values[key] {
			return true
		}
	}

	return false
}

// SetRestartKeys sets which configuration keys invalidate pools when changed
func (c *Config) SetRestartKeys(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartKeys = keys
}

// Params builds connection parameters from the configured values. Credentials
// become basic-auth metadata when a user is set; otherwise the connection is
// unauthenticated.
func (c *Config) Params() (*bolt.ConnParams, error) {
	c.mu.RLock()
	addr := c.values[KeyAddr]
	domain := c.values[KeyDomain]
	user := c.values[KeyUser]
	pass := c.values[KeyPass]
	agent := c.values[KeyUserAgent]
	c.mu.RUnlock()

	metadata := bolt.Metadata{bolt.MetaScheme: bolt.SchemeNone}
	if user != "" {
		metadata[bolt.MetaScheme] = bolt.SchemeBasic
		metadata[bolt.MetaPrincipal] = user
		metadata[bolt.MetaCredentials] = pass
	}
	if agent != "" {
		metadata[bolt.MetaUserAgent] = agent
	}

	return bolt.NewParams(addr, domain, bolt.VersionPreference{}, metadata)
}

// PoolMax returns the configured pool size, or the default.
func (c *Config) PoolMax() int32 {
	if v := c.Get(KeyPoolMax); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return int32(n)
		}
	}
	return DefaultPoolMax
}

// HealthInterval returns the configured sweep interval, or the default.
func (c *Config) HealthInterval() time.Duration {
	if v := c.Get(KeyHealthInterval); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultHealthInterval
}
