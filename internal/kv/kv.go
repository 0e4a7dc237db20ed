// Package kv provides the key-value stores that back ticklist.
//
// Every backend stores opaque byte blobs under string keys. The task
// repository keeps its entire collection under a single key, so backends
// only need whole-value reads and writes.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/ticklist/internal/validation"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store reads and writes whole values by key.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// ValidBackends returns all backend names accepted by Open.
func ValidBackends() []Backend {
	return []Backend{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendPostgres}
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend

	// Path is the data directory for the file backend.
	Path string

	// DSN is the database file for sqlite or the connection URL for postgres.
	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open opens the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(string(opts.Backend))))
	switch backend {
	case "", BackendFile:
		return OpenFile(opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(opts.DSN)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, validation.FormatInvalidValueError(ErrUnknownBackend, backend, ValidBackends())
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key cannot be empty")
	}
	return nil
}
