// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package storetest provides a behavioral test suite for store.Store
// implementations.
//
package storetest

import (
	"context"
	"testing"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run checks that s behaves like a Store. s must be empty.
//
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("SaveLoad", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "blob", []byte("some bytes")))
		data, err := s.Load(ctx, "blob")
		require.NoError(t, err)
		assert.Equal(t, "some bytes", string(data))

		require.NoError(t, s.Save(ctx, "blob", []byte("overwritten")))
		data, err = s.Load(ctx, "blob")
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(data))
		require.NoError(t, s.Delete(ctx, "blob"))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.Equal(t, store.ErrNotFound, errors.Cause(err))
		assert.Equal(t, store.ErrNotFound, errors.Cause(s.Delete(ctx, "missing")))
	})

	t.Run("InvalidName", func(t *testing.T) {
		for _, n := range []string{"", "a/b", `a\b`, ".."} {
			assert.Equal(t, store.ErrInvalidName, errors.Cause(s.Save(ctx, n, nil)), "name %q", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "doomed", []byte("[]")))
		require.NoError(t, s.Delete(ctx, "doomed"))
		_, err := s.Load(ctx, "doomed")
		assert.Equal(t, store.ErrNotFound, errors.Cause(err))
	})

	t.Run("List", func(t *testing.T) {
		for _, n := range []string{"beta", "alpha"} {
			require.NoError(t, s.Save(ctx, n, []byte("[]")))
		}
		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, names)
		for _, n := range names {
			require.NoError(t, s.Delete(ctx, n))
		}
		names, err = s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	// names that look like store internals are plain names
	t.Run("NameCollisions", func(t *testing.T) {
		ns := []string{"index", "__index", "tmp-latch", "circuit:index", "x.json"}
		for _, n := range ns {
			require.NoError(t, s.Save(ctx, n, []byte(n)), "save %q", n)
		}
		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, ns, names)
		for _, n := range ns {
			data, err := s.Load(ctx, n)
			require.NoError(t, err, "load %q", n)
			assert.Equal(t, n, string(data))
			require.NoError(t, s.Delete(ctx, n))
		}
		names, err = s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Circuit", func(t *testing.T) {
		c := smlogic.New()
		in := c.AddInput(smlogic.Point{X: 10, Y: 10}, true)
		g := c.AddGate(smlogic.XOR, smlogic.Point{X: 100, Y: 10})
		c.Connect(in, g)
		require.NoError(t, store.SaveCircuit(ctx, s, "xor", c))

		cc, err := store.LoadCircuit(ctx, s, "xor")
		require.NoError(t, err)
		require.Equal(t, 2, cc.Len())
		assert.True(t, cc.Connected(cc.Nodes()[0].ID(), cc.Nodes()[1].ID()))

		require.NoError(t, s.Save(ctx, "junk", []byte("{")))
		_, err = store.LoadCircuit(ctx, s, "junk")
		assert.Equal(t, smlogic.ErrMalformed, errors.Cause(err))

		require.NoError(t, s.Delete(ctx, "xor"))
		require.NoError(t, s.Delete(ctx, "junk"))
	})
}
