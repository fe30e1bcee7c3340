// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package store

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the default key prefix of the Redis store.
const DefaultPrefix = "smlogic:"

// circuits live under prefix+circuitSpace+name, the name index at
// prefix+indexName, so that no name maps to the index.
const (
	circuitSpace = "circuit:"
	indexName    = "index"
)

// far enough in the future for entries without expiration
const noExpiry = 4102444800 // 2100-01-01

// Redis stores circuits in Redis. Each circuit is a string key; names are
// also indexed in a sorted set scored by expiration time so that List does
// not need to scan keys.
//
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL sets the expiration of saved circuits. Zero means no expiration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *Redis) { s.ttl = ttl }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *Redis) { s.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RedisOption {
	return func(s *Redis) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRedis connects to the Redis server at address.
//
func NewRedis(address, password string, db int, opts ...RedisOption) *Redis {
	return NewRedisFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisFromClient returns a store using an existing client.
//
func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *Redis {
	s := &Redis{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Redis) key(name string) string { return s.prefix + circuitSpace + name }
func (s *Redis) indexKey() string      { return s.prefix + indexName }

// Save stores data under name and refreshes its expiration.
func (s *Redis) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: name})
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "save %q", name)
	}
	s.logger.Debug("circuit saved", "name", name, "bytes", len(data), "ttl", s.ttl)
	return nil
}

// Load returns the data saved under name.
func (s *Redis) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err == backend.Nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", name)
	}
	return data, nil
}

// Delete removes name from the store.
func (s *Redis) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "delete %q", name)
	}
	if del.Val() == 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	return nil
}

// List prunes expired names from the index and returns the others in
// lexical order.
//
func (s *Redis) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, errors.Wrap(err, "prune index")
	}
	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}
