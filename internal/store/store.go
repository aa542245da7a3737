// Package store holds the key-value backends a shopping list snapshot is
// persisted to. Every backend stores opaque bytes under string keys.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Makepad-fr/shoplist/internal/store/jsonstore"
	"github.com/Makepad-fr/shoplist/internal/store/sqlstore"
)

// KV is durable key-value storage. Get reports ok == false for a key that
// was never written (or was deleted).
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Open returns the backend named by driver. path is a directory for the
// json driver and a database file for sqlite; memory ignores it.
func Open(driver, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverJSON, "":
		return jsonstore.Open(path)
	case DriverSQLite:
		return sqlstore.Open(path)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Memory is a process-local KV. Nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
