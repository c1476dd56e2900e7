package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"sangamam/internal/participant"
)

// fakeRemote is a scriptable RemoteStore.
type fakeRemote struct {
	insertErr error
	listErr   error
	setErr    error

	inserted []participant.Participant
	listed   []participant.Participant
	updates  []string
}

func (f *fakeRemote) Insert(ctx context.Context, p participant.Participant) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, p)
	return p.ID, nil
}

func (f *fakeRemote) List(ctx context.Context) ([]participant.Participant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeRemote) SetAttendance(ctx context.Context, id, field string, at time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.updates = append(f.updates, id+":"+field)
	return nil
}

func newTestGateway(t *testing.T, remote RemoteStore) *Gateway {
	t.Helper()
	local, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return NewGateway(local, remote, nil)
}

func newRegistration() participant.Participant {
	return participant.Participant{
		FirstName: "Kumar", LastName: "Krishnan",
		Email: "kumar@x.com", Phone: "555",
		WaiverSigned: true,
		Source:       participant.SourceOnSite,
	}
}

func TestInsertRegistrationLocalOnly(t *testing.T) {
	g := newTestGateway(t, nil)
	ctx := context.Background()

	saved, err := g.InsertRegistration(ctx, newRegistration())
	if err != nil {
		t.Fatalf("InsertRegistration() error = %v", err)
	}
	if saved.ID == "" {
		t.Fatal("no identifier assigned")
	}

	list, err := g.ListRegistrations(ctx)
	if err != nil {
		t.Fatalf("ListRegistrations() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("local snapshot = %+v, want the saved record", list)
	}
}

func TestInsertRegistrationRemoteSuccess(t *testing.T) {
	remote := &fakeRemote{}
	g := newTestGateway(t, remote)

	saved, err := g.InsertRegistration(context.Background(), newRegistration())
	if err != nil {
		t.Fatalf("InsertRegistration() error = %v", err)
	}
	if len(remote.inserted) != 1 {
		t.Fatalf("remote received %d inserts, want 1", len(remote.inserted))
	}
	if remote.inserted[0].ID != saved.ID {
		t.Errorf("remote stored id %q, returned %q", remote.inserted[0].ID, saved.ID)
	}
}

func TestInsertRegistrationRemoteFailureKeepsRecord(t *testing.T) {
	remote := &fakeRemote{insertErr: errors.New("connection refused")}
	g := newTestGateway(t, remote)
	ctx := context.Background()

	saved, err := g.InsertRegistration(ctx, newRegistration())
	if !errors.Is(err, ErrRemoteUnavailable) {
		t.Fatalf("error = %v, want ErrRemoteUnavailable", err)
	}
	if saved.ID == "" {
		t.Fatal("record lost on remote failure")
	}

	// The registration must still be readable from the local snapshot.
	// ListRegistrations prefers remote, which also fails here.
	remote.listErr = errors.New("connection refused")
	list, err := g.ListRegistrations(ctx)
	if err != nil {
		t.Fatalf("ListRegistrations() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("registration not recoverable locally: %+v", list)
	}
}

func TestListRegistrationsPrefersRemote(t *testing.T) {
	remote := &fakeRemote{listed: []participant.Participant{
		{ID: "r1", FirstName: "Remote", LastName: "Row"},
	}}
	g := newTestGateway(t, remote)

	list, err := g.ListRegistrations(context.Background())
	if err != nil {
		t.Fatalf("ListRegistrations() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "r1" {
		t.Errorf("list = %+v, want the remote rows", list)
	}
}

func TestUpdateAttendanceFlagSwallowsFailure(t *testing.T) {
	remote := &fakeRemote{setErr: errors.New("timeout")}
	g := newTestGateway(t, remote)

	// Must not panic or surface the error.
	g.UpdateAttendanceFlag(context.Background(), "42", "checked_in", time.Now())
}

func TestUpdateAttendanceFlagMirrors(t *testing.T) {
	remote := &fakeRemote{}
	g := newTestGateway(t, remote)

	g.UpdateAttendanceFlag(context.Background(), "42", "checked_in", time.Now())
	if len(remote.updates) != 1 || remote.updates[0] != "42:checked_in" {
		t.Errorf("updates = %v", remote.updates)
	}
}
