// Package core wires the sync, persistence, attendance and notification
// components into the flows the front-end drives: sync, register, check-in,
// check-out, roster, export. It has no UI dependencies.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sangamam/internal/attendance"
	"sangamam/internal/export"
	"sangamam/internal/feed"
	"sangamam/internal/participant"
	"sangamam/internal/roster"
	"sangamam/internal/store"
)

// Mailer is the confirmation-email collaborator.
type Mailer interface {
	SendConfirmation(ctx context.Context, p participant.Participant) error
}

// Service owns one instance of every component, constructed once at
// startup with injected configuration. There are no package-level
// singletons.
type Service struct {
	syncer  *feed.Syncer
	gateway *store.Gateway
	tracker *attendance.Tracker
	mailer  Mailer
	log     *slog.Logger
	now     func() time.Time

	// external is the last-synced pre-registration list. Replaced
	// wholesale on every sync; never merged into stored registrations.
	mu       sync.Mutex
	external []participant.Participant
	synced   bool
}

// NewService builds the service.
func NewService(syncer *feed.Syncer, gateway *store.Gateway, tracker *attendance.Tracker, mailer Mailer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		syncer:  syncer,
		gateway: gateway,
		tracker: tracker,
		mailer:  mailer,
		log:     log,
		now:     time.Now,
	}
}

// Sync refreshes the pre-registration list through the tiered fallback
// chain and replaces the held external collection.
func (s *Service) Sync(ctx context.Context) (feed.Result, error) {
	res, err := s.syncer.Sync(ctx)
	if err != nil {
		return feed.Result{}, err
	}

	s.mu.Lock()
	s.external = res.Participants
	s.synced = true
	s.mu.Unlock()
	return res, nil
}

// RegisterResult reports a completed registration.
type RegisterResult struct {
	Participant participant.Participant

	// Advisory is a non-fatal warning for the user, set when the remote
	// store rejected the write and the registration lives only locally.
	Advisory string

	EmailSent bool
}

// Register validates the form, persists the new participant, and sends a
// best-effort confirmation email. preRegistered marks a walk-in who was
// already on the sheet and is confirming their waiver on site.
func (s *Service) Register(ctx context.Context, reg participant.Registration, preRegistered bool) (RegisterResult, error) {
	if err := reg.Validate(); err != nil {
		return RegisterResult{}, err
	}

	source := participant.SourceOnSite
	if preRegistered {
		source = participant.SourcePreRegisteredConfirmed
	}
	p := participant.NewParticipant(reg, source, s.now())

	saved, err := s.gateway.InsertRegistration(ctx, p)
	if err != nil {
		if !errors.Is(err, store.ErrRemoteUnavailable) {
			return RegisterResult{}, err
		}
		// Saved locally; skip the email and tell the user.
		s.log.Warn("registration saved locally only", "participant", saved.FullName())
		return RegisterResult{
			Participant: saved,
			Advisory:    "Registration saved locally. Email confirmation may not be available.",
		}, nil
	}

	result := RegisterResult{Participant: saved}
	if err := s.mailer.SendConfirmation(ctx, saved); err != nil {
		s.log.Error("confirmation email failed", "to", saved.Email, "error", err)
	} else {
		result.EmailSent = true
	}
	return result, nil
}

// CheckIn marks a participant as arrived.
func (s *Service) CheckIn(ctx context.Context, id string) error {
	return s.tracker.CheckIn(ctx, id)
}

// CheckOut marks a participant as having completed the walk.
func (s *Service) CheckOut(ctx context.Context, id string) error {
	return s.tracker.CheckOut(ctx, id)
}

// Entry is a roster row: a participant with their derived status.
type Entry struct {
	participant.Participant
	Status roster.Status
}

// Roster returns the merged, filtered participant list with derived
// statuses. The external list is synced on first use if it has not been
// loaded yet.
func (s *Service) Roster(ctx context.Context, query string) ([]Entry, error) {
	external, err := s.externalList(ctx)
	if err != nil {
		return nil, err
	}
	app, err := s.gateway.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	merged := roster.Filter(roster.Merge(external, app), query)
	entries := make([]Entry, len(merged))
	for i, p := range merged {
		entries[i] = Entry{Participant: p, Status: roster.StatusOf(p, s.tracker)}
	}
	return entries, nil
}

// Export writes the JSON snapshot and CSV table into dir and returns both
// file paths.
func (s *Service) Export(ctx context.Context, dir string) (snapshotPath, tablePath string, err error) {
	external, err := s.externalList(ctx)
	if err != nil {
		return "", "", err
	}
	app, err := s.gateway.ListRegistrations(ctx)
	if err != nil {
		return "", "", fmt.Errorf("list registrations: %w", err)
	}

	now := s.now()
	snap, err := export.ToSnapshot(external, app, s.tracker, now)
	if err != nil {
		return "", "", err
	}
	table := export.ToTable(external, app, s.tracker)

	snapshotPath = filepath.Join(dir, export.SnapshotFileName(now))
	tablePath = filepath.Join(dir, export.TableFileName(now))
	if err := os.WriteFile(snapshotPath, snap, 0o644); err != nil {
		return "", "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(tablePath, []byte(table), 0o644); err != nil {
		return "", "", fmt.Errorf("write table: %w", err)
	}
	return snapshotPath, tablePath, nil
}

// Donate validates a donation amount. Payment processing is not wired up;
// the returned message points donors at the organizers.
func (s *Service) Donate(amount float64) (string, error) {
	if amount < 1 {
		return "", fmt.Errorf("donation amount must be at least $1")
	}
	return fmt.Sprintf(
		"Thank you for your interest in donating $%.2f!\n"+
			"Payment processing is not yet configured. Please contact the organizers for donation options.",
		amount), nil
}

// Close waits for in-flight attendance mirror writes.
func (s *Service) Close() {
	s.tracker.Wait()
}

// externalList returns the held pre-registration list, syncing once if
// nothing has been loaded this session.
func (s *Service) externalList(ctx context.Context) ([]participant.Participant, error) {
	s.mu.Lock()
	synced := s.synced
	external := s.external
	s.mu.Unlock()

	if synced {
		return external, nil
	}
	res, err := s.Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial sync: %w", err)
	}
	return res.Participants, nil
}
