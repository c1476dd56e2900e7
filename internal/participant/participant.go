// Package participant defines the participant record shared by every
// intake path: the pre-registration sheet, on-site registration, and the
// check-in desk. It has no storage or UI dependencies.
package participant

import (
	"fmt"
	"strings"
	"time"
)

// Source records which intake path produced a record.
type Source string

const (
	// SourceGoogleSheets marks rows synced from the pre-registration sheet.
	SourceGoogleSheets Source = "google_sheets"

	// SourceOnSite marks walk-up registrations created in the app.
	SourceOnSite Source = "on_site_registration"

	// SourcePreRegisteredConfirmed marks a pre-registered participant who
	// completed the waiver flow on site.
	SourcePreRegisteredConfirmed Source = "pre_registered_confirmed"
)

// Participant is a single walkathon participant.
//
// Identity is an opaque string: sheet rows get synthetic "gs_N" IDs, app
// registrations get UUIDs, so the two collections never collide.
//
// Email and phone are required only for app-created registrations; sheet
// rows may be incomplete and are kept as long as both names are present.
type Participant struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
	AdditionalParty  string `json:"additionalParty,omitempty"`
	WaiverSigned     bool   `json:"waiver_signed,omitempty"`
	Signature        string `json:"signature,omitempty"`
	RegistrationTime string `json:"registration_time,omitempty"`
	CheckedIn        bool   `json:"checked_in,omitempty"`
	CheckedOut       bool   `json:"checked_out,omitempty"`
	Source           Source `json:"source"`

	// Extra holds columns from the sheet that have no canonical field.
	// Keys are the header names with internal whitespace removed.
	Extra map[string]string `json:"extra,omitempty"`
}

// FullName returns "First Last" for display and search.
func (p Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Valid reports whether the record is displayable: both names non-empty.
func (p Participant) Valid() bool {
	return p.FirstName != "" && p.LastName != ""
}

// Registration is the on-site registration form input.
type Registration struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	EmergencyContact string
	EmergencyPhone   string
	AdditionalParty  string
	WaiverSigned     bool
	Signature        string
}

// Validate enforces the registration form rules. Unlike sheet rows, an
// app-created registration must carry contact details and a signed waiver.
func (r Registration) Validate() error {
	if !r.WaiverSigned {
		return fmt.Errorf("waiver must be signed before completing registration")
	}

	var missing []string
	if strings.TrimSpace(r.FirstName) == "" {
		missing = append(missing, "first name")
	}
	if strings.TrimSpace(r.LastName) == "" {
		missing = append(missing, "last name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required fields missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NewParticipant builds a participant record from a validated registration.
// The ID is assigned later by the persistence gateway.
func NewParticipant(r Registration, source Source, now time.Time) Participant {
	return Participant{
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Email:            strings.TrimSpace(r.Email),
		Phone:            strings.TrimSpace(r.Phone),
		EmergencyContact: strings.TrimSpace(r.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(r.EmergencyPhone),
		AdditionalParty:  strings.TrimSpace(r.AdditionalParty),
		WaiverSigned:     true,
		Signature:        r.Signature,
		RegistrationTime: now.UTC().Format(time.RFC3339),
		Source:           source,
	}
}
