package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// fileService persists every key in a single JSON object on disk, the
// way a browser keeps an origin's local storage in one place.
type fileService struct {
	path string
	mu   sync.RWMutex
}

// NewFile returns a store backed by the JSON file at path. The parent
// directory is created if needed; the file itself appears on first write.
func NewFile(path string) (Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("database: create storage dir: %w", err)
	}
	return &fileService{path: path}, nil
}

func (s *fileService) Health() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]string{"driver": "file", "path": s.path}
	values, err := s.read()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}
	stats["status"] = "up"
	stats["keys"] = strconv.Itoa(len(values))
	return stats
}

func (s *fileService) Close() error {
	return nil
}

func (s *fileService) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *fileService) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *fileService) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *fileService) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: read %s: %w", s.path, err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("database: decode %s: %w", s.path, err)
	}
	return values, nil
}

// write replaces the file atomically via a temp file and rename.
func (s *fileService) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("database: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("database: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("database: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("database: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("database: replace %s: %w", s.path, err)
	}
	return nil
}
