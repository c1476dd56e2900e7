// Package roster is the read-side projection of the two participant
// collections: the merged, searchable list the desk and the exports
// consume. It owns no data.
package roster

import (
	"strings"

	"sangamam/internal/participant"
)

// Status is the derived event state of a participant. It is computed from
// the attendance sets on every read and never stored.
type Status string

const (
	StatusRegistered Status = "Registered"
	StatusCheckedIn  Status = "Checked In"
	StatusCompleted  Status = "Completed"
)

// AttendanceReader is the view the roster needs of the attendance tracker.
type AttendanceReader interface {
	IsCheckedIn(id string) bool
	IsCheckedOut(id string) bool
}

// Merge concatenates the externally sourced list and the app-registered
// list, external first. There is deliberately no de-duplication across the
// two: someone who pre-registered and then registered again on site appears
// twice, once per intake path.
func Merge(external, app []participant.Participant) []participant.Participant {
	out := make([]participant.Participant, 0, len(external)+len(app))
	out = append(out, external...)
	out = append(out, app...)
	return out
}

// Filter returns the participants matching query: case-insensitive
// substring of the full name or email, or raw substring of the phone
// number. An empty query matches everything.
func Filter(list []participant.Participant, query string) []participant.Participant {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)

	var out []participant.Participant
	for _, p := range list {
		switch {
		case strings.Contains(strings.ToLower(p.FullName()), q):
			out = append(out, p)
		case p.Email != "" && strings.Contains(strings.ToLower(p.Email), q):
			out = append(out, p)
		case p.Phone != "" && strings.Contains(p.Phone, query):
			out = append(out, p)
		}
	}
	return out
}

// StatusOf derives a participant's event status from the attendance sets.
// Completed wins over Checked In wins over Registered.
func StatusOf(p participant.Participant, att AttendanceReader) Status {
	switch {
	case att.IsCheckedOut(p.ID):
		return StatusCompleted
	case att.IsCheckedIn(p.ID):
		return StatusCheckedIn
	default:
		return StatusRegistered
	}
}
