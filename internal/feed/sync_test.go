package feed

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"sangamam/internal/participant"
	"sangamam/internal/store"
)

type fakeFetcher struct {
	payload string
	err     error

	mu      sync.Mutex
	block   chan struct{}
	fetches int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.fetches++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.payload, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	local, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return NewCache(local)
}

func TestSyncLive(t *testing.T) {
	fetcher := &fakeFetcher{payload: "First Name,Last Name\nRamesh,Patel\n"}
	cache := newTestCache(t)
	syncer := NewSyncer(fetcher, cache, nil)

	res, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Outcome != OutcomeLive {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeLive)
	}
	if len(res.Participants) != 1 || res.Participants[0].FirstName != "Ramesh" {
		t.Errorf("unexpected participants: %+v", res.Participants)
	}
	if res.SyncedAt == "" {
		t.Error("SyncedAt not set on live sync")
	}

	// A live success must populate the cache.
	cached, ok, err := cache.Load()
	if err != nil || !ok {
		t.Fatalf("cache.Load() = %v, %v after live sync", ok, err)
	}
	if !reflect.DeepEqual(cached, res.Participants) {
		t.Errorf("cached data differs from live result")
	}
}

func TestSyncFallsBackToCache(t *testing.T) {
	cache := newTestCache(t)
	seeded := []participant.Participant{
		{ID: "gs_1", FirstName: "A", LastName: "B", Source: participant.SourceGoogleSheets},
	}
	if err := cache.Save(seeded, "8/16/2025, 7:30:00 AM"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	fetcher := &fakeFetcher{err: errors.New("network down")}
	syncer := NewSyncer(fetcher, cache, nil)

	res, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Outcome != OutcomeCached {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeCached)
	}
	if !reflect.DeepEqual(res.Participants, seeded) {
		t.Errorf("cached tier returned %+v, want the seeded dataset verbatim", res.Participants)
	}
	if res.SyncedAt != "8/16/2025, 7:30:00 AM" {
		t.Errorf("SyncedAt = %q, want the recorded timestamp", res.SyncedAt)
	}
}

func TestSyncFallsBackToSample(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	syncer := NewSyncer(fetcher, newTestCache(t), nil)

	res, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Outcome != OutcomeDefault {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeDefault)
	}
	if !reflect.DeepEqual(res.Participants, SampleParticipants()) {
		t.Errorf("default tier returned %+v, want the fixed sample", res.Participants)
	}
}

func TestSyncMalformedPayloadUsesCache(t *testing.T) {
	cache := newTestCache(t)
	seeded := SampleParticipants()
	if err := cache.Save(seeded, "earlier"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	// Fetch succeeds but the payload has no data rows: still a tier-1
	// failure, and the prior cache must survive untouched.
	fetcher := &fakeFetcher{payload: "First Name,Last Name\n"}
	syncer := NewSyncer(fetcher, cache, nil)

	res, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Outcome != OutcomeCached {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeCached)
	}

	cached, ok, _ := cache.Load()
	if !ok || !reflect.DeepEqual(cached, seeded) {
		t.Error("failed sync cleared or altered the cache")
	}
}

func TestSyncRejectsConcurrentRun(t *testing.T) {
	block := make(chan struct{})
	fetcher := &fakeFetcher{payload: "First Name,Last Name\nRamesh,Patel\n", block: block}
	syncer := NewSyncer(fetcher, newTestCache(t), nil)

	done := make(chan error, 1)
	go func() {
		_, err := syncer.Sync(context.Background())
		done <- err
	}()

	// Wait until the first sync is inside the fetch.
	for !syncer.Busy() {
		time.Sleep(time.Millisecond)
	}

	if _, err := syncer.Sync(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("second Sync() error = %v, want ErrSyncInProgress", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}
	if syncer.Busy() {
		t.Error("Busy() still true after sync completed")
	}
}
