package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/db47h/smlogic/store"
	"github.com/db47h/smlogic/store/storetest"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	storetest.Run(t, store.NewFile(filepath.Join(t.TempDir(), "circuits"), nil))
}

func TestFile_ignoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFile(dir, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "half.json.123.tmp"), []byte("x"), 0644))
	require.NoError(t, s.Save(context.Background(), "real", []byte("[]")))
	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, names)
}

func TestFile_tempNames(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFile(dir, nil)
	require.NoError(t, s.Save(context.Background(), "tmp-latch", []byte("[]")))
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "tmp-latch.json", ents[0].Name())
}

func TestMemory(t *testing.T) {
	storetest.Run(t, store.NewMemory())
}

func newRedis(t *testing.T, opts ...store.RedisOption) (*miniredis.Miniredis, *store.Redis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	s := store.NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}), opts...)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestRedis(t *testing.T) {
	_, s := newRedis(t)
	storetest.Run(t, s)
}

func TestRedis_prefixTTL(t *testing.T) {
	mr, s := newRedis(t, store.WithPrefix("test:"), store.WithTTL(time.Minute))
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "clock", []byte("[]")))

	assert.True(t, mr.Exists("test:circuit:clock"))
	assert.Equal(t, time.Minute, mr.TTL("test:circuit:clock"))
	assert.True(t, mr.Exists("test:index"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Load(ctx, "clock")
	assert.Error(t, err)
}
