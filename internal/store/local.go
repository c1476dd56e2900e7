// Package store provides the persistence layer: a durable local key-value
// store that is always present, an optional remote Postgres store, and a
// Gateway that hides which backing is active from the rest of the app.
package store

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Keys for the local store. These mirror the browser-era storage keys so a
// dump of the old localStorage can be imported verbatim.
const (
	KeyParticipants = "sangamam-participants"
	KeyCheckedIn    = "sangamam-checked-in"
	KeyCheckedOut   = "sangamam-checked-out"
	KeySheetsCache  = "sangamam-google-sheets-data"
	KeyLastSync     = "sangamam-last-sync"
)

// Local is a durable key-value store backed by Badger. It holds everything
// the app needs to come back up offline: cached sheet data, the last sync
// timestamp, locally saved registrations and both attendance sets.
type Local struct {
	db *badger.DB
}

// Open opens (or creates) the local store in dir.
func Open(dir string) (*Local, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local store at %s: %w", dir, err)
	}
	return &Local{db: db}, nil
}

// OpenInMemory opens a non-durable store. Primarily useful for testing.
func OpenInMemory() (*Local, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	return &Local{db: db}, nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	return l.db.Close()
}

// GetJSON reads the value at key into v. Returns false if the key is absent.
func (l *Local) GetJSON(key string, v any) (bool, error) {
	var raw []byte
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("local get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("local decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON writes v at key as JSON.
func (l *Local) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("local encode %s: %w", key, err)
	}
	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("local set %s: %w", key, err)
	}
	return nil
}

// GetString reads a plain string value. Returns false if absent.
func (l *Local) GetString(key string) (string, bool, error) {
	var raw []byte
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("local get %s: %w", key, err)
	}
	return string(raw), true, nil
}

// SetString writes a plain string value.
func (l *Local) SetString(key, value string) error {
	err := l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("local set %s: %w", key, err)
	}
	return nil
}
