// Package attendance tracks which participants have arrived and which have
// completed the walk. Both sets are monotonic for the life of the event: a
// participant cannot "un-arrive", so there is no removal operation.
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"sangamam/internal/store"
)

// Tracker owns the checked-in and checked-out identifier sets. Every
// mutation persists both sets to the local store immediately, so a restart
// recovers the desk state, and mirrors the flag to the remote backing
// fire-and-forget.
//
// The local sets are the source of truth; a mirror failure never rolls
// back or blocks a check-in.
type Tracker struct {
	mu         sync.Mutex
	checkedIn  map[string]struct{}
	checkedOut map[string]struct{}

	local   *store.Local
	gateway *store.Gateway
	log     *slog.Logger

	// wg tracks in-flight mirror writes so tests can wait for them.
	wg sync.WaitGroup
}

// NewTracker builds a tracker, recovering any persisted sets.
func NewTracker(local *store.Local, gateway *store.Gateway, log *slog.Logger) (*Tracker, error) {
	if log == nil {
		log = slog.Default()
	}
	t := &Tracker{
		checkedIn:  make(map[string]struct{}),
		checkedOut: make(map[string]struct{}),
		local:      local,
		gateway:    gateway,
		log:        log,
	}

	var in, out []string
	if _, err := local.GetJSON(store.KeyCheckedIn, &in); err != nil {
		return nil, fmt.Errorf("load checked-in set: %w", err)
	}
	if _, err := local.GetJSON(store.KeyCheckedOut, &out); err != nil {
		return nil, fmt.Errorf("load checked-out set: %w", err)
	}
	for _, id := range in {
		t.checkedIn[id] = struct{}{}
	}
	for _, id := range out {
		t.checkedOut[id] = struct{}{}
	}
	return t, nil
}

// CheckIn marks a participant as arrived. Idempotent.
func (t *Tracker) CheckIn(ctx context.Context, id string) error {
	t.mu.Lock()
	_, present := t.checkedIn[id]
	t.checkedIn[id] = struct{}{}
	err := t.persistLocked()
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if !present {
		t.mirror(id, "checked_in")
	}
	return nil
}

// CheckOut marks a participant as having completed the walk. Idempotent.
// A check-out implies arrival, so the identifier is added to the
// checked-in set as well; the checked-out set is always a subset of the
// checked-in set.
func (t *Tracker) CheckOut(ctx context.Context, id string) error {
	t.mu.Lock()
	_, present := t.checkedOut[id]
	t.checkedOut[id] = struct{}{}
	t.checkedIn[id] = struct{}{}
	err := t.persistLocked()
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if !present {
		t.mirror(id, "checked_out")
	}
	return nil
}

// IsCheckedIn reports whether the participant has arrived.
func (t *Tracker) IsCheckedIn(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.checkedIn[id]
	return ok
}

// IsCheckedOut reports whether the participant has completed the walk.
func (t *Tracker) IsCheckedOut(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.checkedOut[id]
	return ok
}

// Snapshot returns sorted copies of both sets.
func (t *Tracker) Snapshot() (checkedIn, checkedOut []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sortedKeys(t.checkedIn), sortedKeys(t.checkedOut)
}

// persistLocked writes both sets to the local store. Caller holds mu.
func (t *Tracker) persistLocked() error {
	if err := t.local.SetJSON(store.KeyCheckedIn, sortedKeys(t.checkedIn)); err != nil {
		return fmt.Errorf("persist checked-in set: %w", err)
	}
	if err := t.local.SetJSON(store.KeyCheckedOut, sortedKeys(t.checkedOut)); err != nil {
		return fmt.Errorf("persist checked-out set: %w", err)
	}
	return nil
}

// mirror pushes the flag change to the remote backing without blocking the
// caller. Completion order relative to later reads is not guaranteed.
func (t *Tracker) mirror(id, field string) {
	if t.gateway == nil {
		return
	}
	now := time.Now()
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.gateway.UpdateAttendanceFlag(context.Background(), id, field, now)
	}()
}

// Wait blocks until in-flight mirror writes finish. Used in shutdown and
// tests; day-of operation never needs it.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
