package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName is returned for names that would escape the store directory.
	ErrInvalidName = errors.New("docstore: invalid file name")
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("docstore: not found")
	// ErrExists is returned by Save when a document with that name is already stored.
	ErrExists = errors.New("docstore: already exists")
)

// Local keeps generated quotation documents in a flat directory.
type Local struct {
	dir string
}

// NewLocal returns a Local storing files under dir.
func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Save writes data under name and returns the stored file name. Stored documents
// are never replaced: a name that is already taken yields ErrExists.
func (s *Local) Save(_ context.Context, name string, data io.Reader) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("docstore: mkdir: %w", err)
	}

	dest := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("docstore: create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("docstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("docstore: close: %w", err)
	}
	// Link fails when dest exists, so concurrent writers cannot replace each other.
	if err := os.Link(tmp.Name(), dest); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrExists
		}
		return "", fmt.Errorf("docstore: link: %w", err)
	}
	return name, nil
}

// Remove deletes the stored document called name. A missing document is not an error.
func (s *Local) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("docstore: remove: %w", err)
	}
	return nil
}

// Open returns the stored document called name.
func (s *Local) Open(name string) (*os.File, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: open: %w", err)
	}
	return f, nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
