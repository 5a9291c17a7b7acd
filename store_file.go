package stockbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// this file contains the Store persisted in a folder: one human readable json file per key,
// so that the folder can live in a private git repository.

// FileStore is a Store keeping each key in '<dir>/<key>.json'.
type FileStore struct {
	dir string
}

// NewFileStore returns a store in folder 'dir'. The folder is created on the first write.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// Dir returns the store's folder.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) filename(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %v", ErrStorageUnavailable, filename, err)
	}
	return data, nil
}

// Put writes the value into a temporary file renamed over the key's file,
// so that a reader never sees a partial value.
func (s *FileStore) Put(key string, value []byte) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("cannot create folder %q: %w", s.dir, err)
	}
	f, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create file for %q: %w", key, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed

	if _, err := f.Write(value); err != nil {
		f.Close()
		return fmt.Errorf("cannot write to file %q: %w", tmp, err)
	}
	// Add a trailing line at the end of the file.
	if _, err := f.Write([]byte("\n")); err != nil {
		f.Close()
		return fmt.Errorf("cannot write to file %q: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("cannot replace %q: %w", filename, err)
	}
	logf("write-store-file name=%q", filename)
	return nil
}

func (s *FileStore) Delete(key string) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot delete %q: %w", filename, err)
	}
	logf("delete-store-file name=%q", filename)
	return nil
}
