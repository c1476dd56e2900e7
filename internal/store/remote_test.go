package store

import (
	"context"
	"testing"
	"time"
)

func TestSetAttendanceRejectsUnknownField(t *testing.T) {
	// The field name is interpolated into SQL, so anything outside the
	// allowlist must be rejected before the query is built.
	r := NewRemote(nil)
	err := r.SetAttendance(context.Background(), "42", "first_name", time.Now())
	if err == nil {
		t.Fatal("SetAttendance() accepted an unknown field")
	}
}
