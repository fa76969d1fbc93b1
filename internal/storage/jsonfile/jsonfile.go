// Package jsonfile persists a whole store document as one JSON file. The
// file is the only system of record between runs; every save rewrites it
// in full.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ratestash/ratestash/internal/entities"
)

type Store[T any] struct {
	path string
}

func New[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

func (s *Store[T]) Path() string {
	return s.path
}

// Load reads and strictly decodes the document. A missing file yields the
// zero document, which the first run then initializes; malformed JSON or
// unknown fields are reported as corruption and the file is left as is.
func (s *Store[T]) Load() (*T, error) {
	const op = "jsonfile.Load"

	var doc T

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &doc, nil
		}
		return nil, errors.Wrap(err, op)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(entities.ErrStoreCorrupt, "%s: %s: %v", op, s.path, err)
	}

	return &doc, nil
}

// Save rewrites the document, creating the parent directory when missing.
// Indented output keeps the file inspectable by hand.
func (s *Store[T]) Save(doc *T) error {
	const op = "jsonfile.Save"

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, op)
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}
