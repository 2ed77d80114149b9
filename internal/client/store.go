package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Keys used in the durable store.
const (
	KeyToken = "adminToken"
	KeyUser  = "adminUser"
)

var sessionBucket = []byte("session")

// ErrStoreClosed is returned by a store after Close.
var ErrStoreClosed = errors.New("store is closed")

// DurableStore keeps string values across restarts.
type DurableStore interface {
	// Get returns "" for a missing key.
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
	Close() error
}

// BoltStore is a DurableStore in a bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the bbolt file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state file %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init state file: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get implements DurableStore.
func (s *BoltStore) Get(key string) (string, error) {
	var out string

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionBucket).Get([]byte(key)); v != nil {
			out = string(v)
		}

		return nil
	})

	return out, err
}

// Put implements DurableStore.
func (s *BoltStore) Put(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
}

// Delete implements DurableStore.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}

// Close implements DurableStore.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// MemoryStore is a DurableStore that forgets everything on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get implements DurableStore.
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	return s.data[key], nil
}

// Put implements DurableStore.
func (s *MemoryStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.data[key] = value

	return nil
}

// Delete implements DurableStore.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	delete(s.data, key)

	return nil
}

// Close implements DurableStore.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
