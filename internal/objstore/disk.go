package objstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects as files under a directory served by the
// HTTP layer at <publicBaseURL>/uploads/<name>.
type DiskStore struct {
	dir           string
	publicBaseURL string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, publicBaseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory objects are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put writes the object to disk and returns its public URL.
func (s *DiskStore) Put(name string, r io.Reader) (string, error) {
	dst, err := os.Create(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return "", fmt.Errorf("failed to create object %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write object %s: %w", name, err)
	}
	return fmt.Sprintf("%s/uploads/%s", s.publicBaseURL, filepath.Base(name)), nil
}

// Remove deletes the object file. An already-missing object is fine:
// deletes must be idempotent so a record cleanup can always proceed.
func (s *DiskStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}
