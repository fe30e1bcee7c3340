// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the YAML configuration shared by the smlogic
// commands.
//
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "smlogic.yaml"

// Config is the application configuration.
type Config struct {
	Circuit  string        `yaml:"circuit"`   // circuit file loaded at startup
	Interval time.Duration `yaml:"interval"`  // tick period in continuous mode
	LogLevel string        `yaml:"log_level"` // debug, info, warn or error
	Listen   string        `yaml:"listen"`    // HTTP listen address
	Store    Store         `yaml:"store"`
}

// Store selects and configures the circuit store.
type Store struct {
	Backend string `yaml:"backend"` // file, redis or memory
	Dir     string `yaml:"dir"`
	Redis   Redis  `yaml:"redis"`
}

// Redis configures the Redis store backend.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Interval: 250 * time.Millisecond,
		LogLevel: "info",
		Listen:   "localhost:8080",
		Store: Store{
			Backend: "file",
			Dir:     "circuits",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: store.DefaultPrefix,
			},
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file is
// not an error: the defaults are returned. Unknown keys are.
//
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err = cfg.decode(data); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return c.Validate()
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return errors.Errorf("interval must be positive, got %v", c.Interval)
	}
	switch c.Store.Backend {
	case "file", "redis", "memory":
	default:
		return errors.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Marshal returns the YAML form of c.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Open returns the configured store.
//
func (s *Store) Open(logger *slog.Logger) (store.Store, error) {
	switch s.Backend {
	case "file":
		return store.NewFile(s.Dir, logger), nil
	case "redis":
		return store.NewRedis(s.Redis.Addr, s.Redis.Password, s.Redis.DB,
			store.WithPrefix(s.Redis.Prefix),
			store.WithTTL(s.Redis.TTL),
			store.WithLogger(logger)), nil
	case "memory":
		return store.NewMemory(), nil
	}
	return nil, errors.Errorf("unknown store backend %q", s.Backend)
}
