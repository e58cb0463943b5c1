package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore persists bundles as .tgz files in a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store over the given directory. The directory is
// created lazily on the first Put.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Put writes the bundle to <dir>/<name>, creating the directory if needed.
func (s *LocalStore) Put(_ context.Context, name string, data io.Reader) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return NewArchiveError(fmt.Sprintf("creating storage directory %q", s.dir), err)
	}
	target := filepath.Join(s.dir, name)
	file, err := os.Create(target)
	if err != nil {
		return NewArchiveError(fmt.Sprintf("creating archive file %q", target), err)
	}
	if _, err := io.Copy(file, data); err != nil {
		_ = file.Close()
		return NewArchiveError(fmt.Sprintf("writing archive file %q", target), err)
	}
	if err := file.Close(); err != nil {
		return NewArchiveError(fmt.Sprintf("closing archive file %q", target), err)
	}
	return nil
}

// Get opens the bundle file by name.
func (s *LocalStore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(fmt.Sprintf("no bundle %q in directory %q", name, s.dir))
		}
		return nil, NewArchiveError(fmt.Sprintf("opening archive file %q", name), err)
	}
	return file, nil
}

// List enumerates the regular .tgz files in the storage directory with
// their modification times.
func (s *LocalStore) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, NewArchiveError(fmt.Sprintf("reading storage directory %q", s.dir), err)
	}
	var objects []Object
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != bundleExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{Name: entry.Name(), LastModified: info.ModTime()})
	}
	return objects, nil
}

// Delete removes the bundle file by name.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return NewArchiveError(fmt.Sprintf("removing archive file %q", name), err)
	}
	return nil
}

// Key reports the bundle name itself; local bundles are addressed by name
// within the storage directory.
func (s *LocalStore) Key(name string) string {
	return name
}

// Location reports the storage directory.
func (s *LocalStore) Location() string {
	return s.dir
}
