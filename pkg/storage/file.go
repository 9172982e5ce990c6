package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File keeps key/value pairs in a YAML document, rewritten on every change.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFile loads the YAML file at path. A missing file is an empty store.
func NewFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path) //nolint:gosec // path from user config
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", path, err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

// Set stores value under key and writes the file.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.save()
}

// Remove deletes key and writes the file.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.save()
}

// Close is a no-op; every change is already on disk.
func (f *File) Close() error {
	return nil
}

func (f *File) save() error {
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	// The token lives here, keep it private to the operator.
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", f.path, err)
	}
	return nil
}
