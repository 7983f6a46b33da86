package database

import (
	"context"
	"strconv"
	"sync"
)

// memoryService keeps values in process memory. Nothing survives a restart.
type memoryService struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() Service {
	return &memoryService{values: make(map[string]string)}
}

func (s *memoryService) Health() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return map[string]string{"status": "down", "driver": "memory", "error": ErrClosed.Error()}
	}
	return map[string]string{
		"status": "up",
		"driver": "memory",
		"keys":   strconv.Itoa(len(s.values)),
	}
}

func (s *memoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memoryService) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryService) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *memoryService) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.values, key)
	return nil
}
