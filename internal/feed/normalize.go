// Package feed syncs the pre-registration list from the published sheet:
// fetch, normalize, and fall back through cache and built-in sample data
// so the check-in desk works even fully offline.
package feed

import (
	"errors"
	"fmt"
	"strings"

	"sangamam/internal/participant"
)

// ErrEmptyDataset reports a payload with no usable rows: fewer than two
// non-blank lines, or no row surviving the name requirement.
var ErrEmptyDataset = errors.New("dataset has no usable rows")

// headerFields maps known header spellings (lowercased) to canonical
// field names. Unrecognized headers pass through with whitespace removed.
var headerFields = map[string]string{
	"first name":    "firstName",
	"firstname":     "firstName",
	"last name":     "lastName",
	"lastname":      "lastName",
	"email":         "email",
	"email address": "email",
	"phone":         "phone",
	"phone number":  "phone",
	"mobile":        "phone",
}

// Normalize parses the raw sheet payload into participant records.
//
// The first non-blank line is the header row; each cell is trimmed,
// quote-stripped and lowercased before mapping. Data rows are skipped when
// they have fewer cells than the header or only empty cells, and silently
// dropped when either name field is missing after mapping. Surviving rows
// get synthetic "gs_N" identifiers by data-row position and the
// google_sheets source tag.
//
// Splitting is a plain comma split: a field containing a literal comma
// mis-aligns the columns after it. The published sheet does not quote
// fields, so quoted-comma handling would change output shape for no
// current input; see DESIGN.md before changing this.
func Normalize(raw string) ([]participant.Participant, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: need a header line and at least one data line", ErrEmptyDataset)
	}

	headers := splitCells(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}

	var out []participant.Participant
	for i, line := range lines[1:] {
		cells := splitCells(line)
		if len(cells) < len(headers) || allEmpty(cells) {
			continue
		}

		p := participant.Participant{
			ID:     fmt.Sprintf("gs_%d", i+1),
			Source: participant.SourceGoogleSheets,
		}
		for j, header := range headers {
			if j >= len(cells) {
				break
			}
			setField(&p, header, cells[j])
		}

		if p.Valid() {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no row has both first and last name", ErrEmptyDataset)
	}
	return out, nil
}

// setField assigns a cell to its canonical participant field, or to the
// pass-through Extra map for unrecognized headers.
func setField(p *participant.Participant, header, value string) {
	switch headerFields[header] {
	case "firstName":
		p.FirstName = value
	case "lastName":
		p.LastName = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	default:
		key := strings.Join(strings.Fields(header), "")
		if key == "" {
			return
		}
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		p.Extra[key] = value
	}
}

// splitCells splits a line on commas, trimming and quote-stripping each
// cell the way the sheet export is formatted.
func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(c), `"`, "")
	}
	return cells
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
