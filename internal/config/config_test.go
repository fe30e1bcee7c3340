package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/db47h/smlogic/internal/config"
	"github.com/db47h/smlogic/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "smlogic.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad_missing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	p := writeFile(t, `
circuit: adder.json
interval: 100ms
log_level: debug
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 1h
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "adder.json", cfg.Circuit)
	assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	// untouched defaults
	assert.Equal(t, "localhost:8080", cfg.Listen)
	assert.Equal(t, store.DefaultPrefix, cfg.Store.Redis.Prefix)
}

func TestLoad_empty(t *testing.T) {
	cfg, err := config.Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_errors(t *testing.T) {
	td := []struct {
		name, content string
	}{
		{"unknown key", "tick: 5\n"},
		{"bad interval", "interval: soon\n"},
		{"negative interval", "interval: -1s\n"},
		{"bad backend", "store:\n  backend: floppy\n"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, d.content))
			assert.Error(t, err)
		})
	}
}

func TestMarshal(t *testing.T) {
	data, err := config.Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 250ms")
}

func TestOpen(t *testing.T) {
	s := config.Store{Backend: "memory"}
	st, err := s.Open(nil)
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)

	s = config.Store{Backend: "file", Dir: t.TempDir()}
	st, err = s.Open(nil)
	require.NoError(t, err)
	assert.IsType(t, &store.File{}, st)
}
