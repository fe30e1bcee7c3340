// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	fileExt = ".json"
	tmpExt  = ".tmp"
)

// File stores circuits as JSON files in a directory.
//
type File struct {
	Dir    string
	Logger *slog.Logger
}

// NewFile returns a file store rooted at dir. A nil logger discards logs.
//
func NewFile(dir string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{Dir: dir, Logger: logger}
}

func (s *File) path(name string) string {
	return filepath.Join(s.Dir, name+fileExt)
}

// Save writes data atomically: it goes to a temporary file in the same
// directory that is then renamed over the destination.
//
func (s *File) Save(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.Wrap(err, "create store directory")
	}
	// temp files never carry fileExt, List skips them
	tmp, err := os.CreateTemp(s.Dir, name+fileExt+".*"+tmpExt)
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err = os.Rename(tmpPath, s.path(name)); err != nil {
		return errors.Wrapf(err, "save %q", name)
	}
	s.Logger.Debug("circuit saved", "name", name, "bytes", len(data), "path", s.path(name))
	return nil
}

// Load reads the circuit saved under name.
//
func (s *File) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%q", name)
		}
		return nil, errors.Wrapf(err, "load %q", name)
	}
	return data, nil
}

// Delete removes the circuit saved under name.
//
func (s *File) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		return errors.Wrapf(err, "delete %q", name)
	}
	return nil
}

// List returns the sorted names of all saved circuits. A missing directory
// is an empty store.
//
func (s *File) List(ctx context.Context) ([]string, error) {
	ents, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "list store directory")
	}
	var names []string
	for _, e := range ents {
		n := e.Name()
		if e.IsDir() || !strings.HasSuffix(n, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, fileExt))
	}
	sort.Strings(names)
	return names, nil
}
