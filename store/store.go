// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package store persists serialized circuits by name.
//
// Stores deal in bytes; use SaveCircuit and LoadCircuit to go through the
// circuit codec.
//
package store

import (
	"context"
	"strings"

	"github.com/db47h/smlogic"
	"github.com/pkg/errors"
)

// ErrNotFound is the cause of errors returned when loading or deleting an
// unknown circuit.
//
var ErrNotFound = errors.New("circuit not found")

// ErrInvalidName is returned for empty names or names containing path
// separators.
//
var ErrInvalidName = errors.New("invalid circuit name")

// Store is a named blob store for serialized circuits.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// SaveCircuit serializes c and saves it under name.
//
func SaveCircuit(ctx context.Context, s Store, name string, c *smlogic.Circuit) error {
	data, err := c.Serialize()
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	return s.Save(ctx, name, data)
}

// LoadCircuit loads and deserializes the circuit saved under name.
//
func LoadCircuit(ctx context.Context, s Store, name string) (*smlogic.Circuit, error) {
	data, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := smlogic.Deserialize(data)
	if err != nil {
		return nil, errors.Wrapf(err, "circuit %q", name)
	}
	return c, nil
}
