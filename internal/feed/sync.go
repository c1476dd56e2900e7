package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"sangamam/internal/participant"
)

// Outcome reports which tier produced a sync result.
type Outcome string

const (
	// OutcomeLive means the sheet was fetched and normalized successfully.
	OutcomeLive Outcome = "live"

	// OutcomeCached means the fetch failed and the last cached dataset
	// was returned verbatim.
	OutcomeCached Outcome = "cached"

	// OutcomeDefault means neither fetch nor cache was available and the
	// built-in sample roster was returned.
	OutcomeDefault Outcome = "default"
)

// ErrSyncInProgress reports that a sync was requested while one is still
// running. The second request is rejected, not queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// Result is the outcome of one sync cycle.
type Result struct {
	Participants []participant.Participant
	Outcome      Outcome
	SyncedAt     string
}

// Syncer runs the tiered sync: live fetch, then cache, then the built-in
// sample. Each tier is attempted only if the prior one failed; only a live
// success touches the cache.
type Syncer struct {
	fetcher Fetcher
	cache   *Cache
	log     *slog.Logger
	busy    atomic.Bool

	// now is swappable for tests.
	now func() time.Time
}

// NewSyncer builds a syncer over a fetcher and cache.
func NewSyncer(fetcher Fetcher, cache *Cache, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{fetcher: fetcher, cache: cache, log: log, now: time.Now}
}

// Busy reports whether a sync is currently running. The presentation
// layer uses this to disable its refresh control.
func (s *Syncer) Busy() bool {
	return s.busy.Load()
}

// Sync runs the fallback chain and returns the first tier that produces
// data. It never fails outright: the default tier always succeeds. The
// only error conditions are re-entry (ErrSyncInProgress) and a broken
// local store.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Result{}, ErrSyncInProgress
	}
	defer s.busy.Store(false)

	tiers := []struct {
		outcome Outcome
		run     func(context.Context) (Result, error)
	}{
		{OutcomeLive, s.live},
		{OutcomeCached, s.cached},
		{OutcomeDefault, s.fallback},
	}

	for _, tier := range tiers {
		res, err := tier.run(ctx)
		if err != nil {
			s.log.Warn("sync tier failed", "tier", tier.outcome, "error", err)
			continue
		}
		if tier.outcome != OutcomeLive {
			s.log.Info("sync degraded", "tier", tier.outcome, "rows", len(res.Participants))
		} else {
			s.log.Info("sync complete", "rows", len(res.Participants))
		}
		return res, nil
	}

	// Unreachable: the fallback tier cannot fail.
	return s.fallback(ctx)
}

// live fetches and normalizes the sheet, then persists cache + timestamp.
func (s *Syncer) live(ctx context.Context) (Result, error) {
	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	list, err := Normalize(raw)
	if err != nil {
		return Result{}, err
	}

	syncedAt := s.now().Format("1/2/2006, 3:04:05 PM")
	if err := s.cache.Save(list, syncedAt); err != nil {
		// The data is good even if caching it failed.
		s.log.Error("failed to cache sheet data", "error", err)
	}
	return Result{Participants: list, Outcome: OutcomeLive, SyncedAt: syncedAt}, nil
}

// cached returns the last cached dataset, if one exists.
func (s *Syncer) cached(ctx context.Context) (Result, error) {
	list, ok, err := s.cache.Load()
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, errors.New("no cached dataset")
	}
	syncedAt, _ := s.cache.LastSync()
	return Result{Participants: list, Outcome: OutcomeCached, SyncedAt: syncedAt}, nil
}

// fallback returns the built-in sample roster. It never fails.
func (s *Syncer) fallback(context.Context) (Result, error) {
	syncedAt, _ := s.cache.LastSync()
	return Result{Participants: SampleParticipants(), Outcome: OutcomeDefault, SyncedAt: syncedAt}, nil
}
