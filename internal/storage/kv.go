package storage

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// KV is a durable string slot store. A missing key reads as "".
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend    string
	RedisURL   string
	SQLitePath string
}

// Open returns the KV named by opts.Backend. An unreachable Redis falls back
// to memory so the bot keeps working for the session.
func Open(opts Options, log *zap.Logger) (KV, error) {
	switch opts.Backend {
	case BackendRedis:
		if opts.RedisURL == "" {
			log.Warn("redis not configured (REDIS_URL missing), using memory only")
			return NewMemoryKV(), nil
		}
		client, err := NewRedisClient(opts.RedisURL, log)
		if err != nil {
			log.Warn("redis connection failed, using memory only", zap.Error(err))
			return NewMemoryKV(), nil
		}
		return client, nil
	case BackendSQLite, "":
		return NewSQLiteKV(opts.SQLitePath)
	case BackendMemory:
		return NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Close() error { return nil }
