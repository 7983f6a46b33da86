package database

import (
	"context"
	"errors"
	"fmt"

	"gym-booking/internal/config"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("database: closed")

// Service is a durable key-value store holding string values, the storage
// primitive underneath the booking list.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the connection to the backend.
	// It returns an error if the connection cannot be closed.
	Close() error

	// Get returns the value stored under key. ok is false when the key
	// has never been set or has been removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// New opens the backend selected by cfg.StorageDriver.
func New(ctx context.Context, cfg config.Config) (Service, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverFile:
		return NewFile(cfg.StorageFilePath)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN(), cfg.DBAutoMigrate)
	case config.DriverRedis:
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return nil, fmt.Errorf("database: unknown driver %q", cfg.StorageDriver)
}
