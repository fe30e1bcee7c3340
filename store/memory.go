// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Memory is an in-memory store, mostly useful for tests.
//
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Save implements Store.
func (s *Memory) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	s.data[name] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}

// Load implements Store.
func (s *Memory) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return append([]byte(nil), d...), nil
}

// Delete implements Store.
func (s *Memory) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(s.data, name)
	return nil
}

// List implements Store.
func (s *Memory) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for n := range s.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
