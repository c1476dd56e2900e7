// Package export serializes the merged participant data for download:
// a full JSON snapshot and a flat CSV table.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"sangamam/internal/participant"
	"sangamam/internal/roster"
)

// Snapshot is a point-in-time dump of both collections, both attendance
// sets and the derived counters. Field names match the browser-era export
// so downstream spreadsheets keep working.
type Snapshot struct {
	Participants           []participant.Participant `json:"participants"`
	RegisteredParticipants []participant.Participant `json:"registeredParticipants"`
	CheckedIn              []string                  `json:"checkedIn"`
	CheckedOut             []string                  `json:"checkedOut"`
	ExportDate             string                    `json:"exportDate"`
	TotalRegistered        int                       `json:"totalRegistered"`
	TotalPreRegistered     int                       `json:"totalPreRegistered"`
	TotalCheckedIn         int                       `json:"totalCheckedIn"`
	TotalCompleted         int                       `json:"totalCompleted"`
}

// AttendanceSource supplies the attendance view the exports need.
type AttendanceSource interface {
	roster.AttendanceReader
	Snapshot() (checkedIn, checkedOut []string)
}

// ToSnapshot encodes the full dump as indented JSON.
func ToSnapshot(external, app []participant.Participant, att AttendanceSource, now time.Time) ([]byte, error) {
	in, out := att.Snapshot()
	snap := Snapshot{
		Participants:           app,
		RegisteredParticipants: external,
		CheckedIn:              in,
		CheckedOut:             out,
		ExportDate:             now.UTC().Format(time.RFC3339),
		TotalRegistered:        len(app),
		TotalPreRegistered:     len(external),
		TotalCheckedIn:         len(in),
		TotalCompleted:         len(out),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// tableHeader is the fixed column set of the CSV export.
var tableHeader = []string{
	"Name", "Email", "Phone", "Emergency Contact", "Emergency Phone",
	"Additional Party", "Source", "Status", "Registration Time",
}

// ToTable renders the merged list as delimited text. Every field is
// quote-wrapped; missing optional fields render as empty strings and a
// missing source as "unknown".
func ToTable(external, app []participant.Participant, att roster.AttendanceReader) string {
	all := roster.Merge(external, app)

	lines := make([]string, 0, len(all)+1)
	lines = append(lines, strings.Join(tableHeader, ","))

	for _, p := range all {
		source := string(p.Source)
		if source == "" {
			source = "unknown"
		}
		fields := []string{
			p.FullName(),
			p.Email,
			p.Phone,
			p.EmergencyContact,
			p.EmergencyPhone,
			p.AdditionalParty,
			source,
			string(roster.StatusOf(p, att)),
			p.RegistrationTime,
		}
		for i, f := range fields {
			fields[i] = `"` + f + `"`
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

// SnapshotFileName returns the dated download name for the JSON dump.
func SnapshotFileName(now time.Time) string {
	return fmt.Sprintf("sangamam-data-%s.json", now.UTC().Format("2006-01-02"))
}

// TableFileName returns the dated download name for the CSV table.
func TableFileName(now time.Time) string {
	return fmt.Sprintf("sangamam-participants-%s.csv", now.UTC().Format("2006-01-02"))
}
