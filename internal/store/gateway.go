package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sangamam/internal/participant"
)

// ErrRemoteUnavailable reports that the remote database rejected a write.
// The registration is still saved locally; callers should treat this as an
// advisory ("saved locally, confirmation may be limited"), not a failure.
var ErrRemoteUnavailable = errors.New("remote store unavailable, saved locally")

// Gateway is the single entry point for registration persistence. The
// backing is chosen once at startup: remote Postgres when configured,
// otherwise the local store alone. Callers never branch on which backing
// is active.
//
// The local store is always written first so a remote outage can never
// lose a submitted registration.
type Gateway struct {
	local  *Local
	remote RemoteStore // nil when no database is configured
	log    *slog.Logger
}

// NewGateway builds a gateway. remote may be nil.
func NewGateway(local *Local, remote RemoteStore, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{local: local, remote: remote, log: log}
}

// InsertRegistration persists a new registration and returns the record
// with its finalized identifier.
//
// The record always gets a locally assigned UUID and is appended to the
// local snapshot before any remote call. If the remote write fails, the
// locally saved record is still returned together with
// ErrRemoteUnavailable.
func (g *Gateway) InsertRegistration(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	p.ID = uuid.New().String()

	if err := g.appendLocal(p); err != nil {
		return participant.Participant{}, fmt.Errorf("save registration locally: %w", err)
	}

	if g.remote == nil {
		return p, nil
	}

	id, err := g.remote.Insert(ctx, p)
	if err != nil {
		g.log.Warn("remote insert failed, registration kept locally",
			"participant", p.FullName(), "error", err)
		return p, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if id != "" {
		p.ID = id
	}
	return p, nil
}

// ListRegistrations returns all app-created registrations. With a remote
// backing it queries newest-first; on query failure it falls back to the
// local snapshot rather than returning an error.
func (g *Gateway) ListRegistrations(ctx context.Context) ([]participant.Participant, error) {
	if g.remote != nil {
		list, err := g.remote.List(ctx)
		if err == nil {
			return list, nil
		}
		g.log.Warn("remote list failed, using local snapshot", "error", err)
	}
	return g.listLocal()
}

// UpdateAttendanceFlag mirrors a check-in/check-out flag to the remote
// backing. It is best-effort: failures are logged and swallowed, because
// the tracker's local state is authoritative for the running event.
func (g *Gateway) UpdateAttendanceFlag(ctx context.Context, id, field string, at time.Time) {
	if g.remote == nil {
		return
	}
	if err := g.remote.SetAttendance(ctx, id, field, at); err != nil {
		g.log.Error("attendance mirror failed", "id", id, "field", field, "error", err)
	}
}

// Local exposes the local store for components that own their own keys
// (sheet cache, attendance sets).
func (g *Gateway) Local() *Local {
	return g.local
}

func (g *Gateway) appendLocal(p participant.Participant) error {
	list, err := g.listLocal()
	if err != nil {
		return err
	}
	list = append(list, p)
	return g.local.SetJSON(KeyParticipants, list)
}

func (g *Gateway) listLocal() ([]participant.Participant, error) {
	var list []participant.Participant
	if _, err := g.local.GetJSON(KeyParticipants, &list); err != nil {
		return nil, err
	}
	return list, nil
}
