package attendance

import (
	"context"
	"testing"

	"sangamam/internal/store"
)

func newTestLocal(t *testing.T) *store.Local {
	t.Helper()
	local, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return local
}

func newTestTracker(t *testing.T, local *store.Local) *Tracker {
	t.Helper()
	tr, err := NewTracker(local, nil, nil)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	return tr
}

func TestCheckInIdempotent(t *testing.T) {
	tr := newTestTracker(t, newTestLocal(t))
	ctx := context.Background()

	if err := tr.CheckIn(ctx, "42"); err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	if err := tr.CheckIn(ctx, "42"); err != nil {
		t.Fatalf("second CheckIn() error = %v", err)
	}

	in, _ := tr.Snapshot()
	if len(in) != 1 {
		t.Errorf("checked-in set size = %d after double check-in, want 1", len(in))
	}
	if !tr.IsCheckedIn("42") {
		t.Error("IsCheckedIn(42) = false")
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	tr := newTestTracker(t, newTestLocal(t))
	ctx := context.Background()

	// No check-in precondition: the mark still lands, and the identifier
	// joins the checked-in set so checked-out stays a subset of it.
	if err := tr.CheckOut(ctx, "99"); err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}
	if !tr.IsCheckedOut("99") {
		t.Error("IsCheckedOut(99) = false")
	}
	if !tr.IsCheckedIn("99") {
		t.Error("IsCheckedIn(99) = false, checked-out must imply checked-in")
	}
}

func TestSubsetInvariant(t *testing.T) {
	tr := newTestTracker(t, newTestLocal(t))
	ctx := context.Background()

	ids := []string{"1", "2", "3", "4"}
	for _, id := range ids {
		if err := tr.CheckIn(ctx, id); err != nil {
			t.Fatalf("CheckIn(%s) error = %v", id, err)
		}
	}
	for _, id := range []string{"2", "4", "5"} {
		if err := tr.CheckOut(ctx, id); err != nil {
			t.Fatalf("CheckOut(%s) error = %v", id, err)
		}
	}

	in, out := tr.Snapshot()
	inSet := make(map[string]bool, len(in))
	for _, id := range in {
		inSet[id] = true
	}
	for _, id := range out {
		if !inSet[id] {
			t.Errorf("checked-out id %s not in checked-in set", id)
		}
	}
}

func TestStateRecoveredAfterRestart(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	first := newTestTracker(t, local)
	if err := first.CheckIn(ctx, "42"); err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	if err := first.CheckOut(ctx, "7"); err != nil {
		t.Fatalf("CheckOut() error = %v", err)
	}

	// A new tracker over the same store stands in for a process restart.
	second := newTestTracker(t, local)
	if !second.IsCheckedIn("42") {
		t.Error("checked-in state lost across restart")
	}
	if !second.IsCheckedOut("7") {
		t.Error("checked-out state lost across restart")
	}
}

func TestSnapshotSorted(t *testing.T) {
	tr := newTestTracker(t, newTestLocal(t))
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := tr.CheckIn(ctx, id); err != nil {
			t.Fatalf("CheckIn(%s) error = %v", id, err)
		}
	}

	in, _ := tr.Snapshot()
	want := []string{"a", "b", "c"}
	for i, id := range in {
		if id != want[i] {
			t.Fatalf("Snapshot() checked-in = %v, want %v", in, want)
		}
	}
}
