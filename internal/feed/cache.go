package feed

import (
	"fmt"

	"sangamam/internal/participant"
	"sangamam/internal/store"
)

// Cache persists the last successfully normalized sheet dataset and the
// sync timestamp across restarts. Staleness is unbounded on purpose:
// stale-but-present data beats empty data at the check-in desk.
type Cache struct {
	local *store.Local
}

// NewCache wraps the local store.
func NewCache(local *store.Local) *Cache {
	return &Cache{local: local}
}

// Save replaces the cached dataset and sync timestamp. Only called on a
// live sync success; failures never clear a prior cache.
func (c *Cache) Save(list []participant.Participant, syncedAt string) error {
	if err := c.local.SetJSON(store.KeySheetsCache, list); err != nil {
		return fmt.Errorf("cache sheet data: %w", err)
	}
	if err := c.local.SetString(store.KeyLastSync, syncedAt); err != nil {
		return fmt.Errorf("cache sync time: %w", err)
	}
	return nil
}

// Load returns the cached dataset verbatim, and whether one exists.
func (c *Cache) Load() ([]participant.Participant, bool, error) {
	var list []participant.Participant
	ok, err := c.local.GetJSON(store.KeySheetsCache, &list)
	if err != nil {
		return nil, false, fmt.Errorf("load cached sheet data: %w", err)
	}
	return list, ok, nil
}

// LastSync returns the recorded last-successful-sync timestamp, if any.
func (c *Cache) LastSync() (string, bool) {
	ts, ok, err := c.local.GetString(store.KeyLastSync)
	if err != nil {
		return "", false
	}
	return ts, ok
}
