package participant

import (
	"strings"
	"testing"
	"time"
)

func validRegistration() Registration {
	return Registration{
		FirstName:    "Kumar",
		LastName:     "Krishnan",
		Email:        "kumar@x.com",
		Phone:        "555",
		WaiverSigned: true,
		Signature:    "Kumar Krishnan",
	}
}

func TestRegistrationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Registration)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(r *Registration) {},
		},
		{
			name:    "waiver not signed",
			mutate:  func(r *Registration) { r.WaiverSigned = false },
			wantErr: "waiver",
		},
		{
			name:    "missing first name",
			mutate:  func(r *Registration) { r.FirstName = "  " },
			wantErr: "first name",
		},
		{
			name:    "missing email",
			mutate:  func(r *Registration) { r.Email = "" },
			wantErr: "email",
		},
		{
			name:    "missing phone",
			mutate:  func(r *Registration) { r.Phone = "" },
			wantErr: "phone",
		},
		{
			name: "multiple missing fields listed",
			mutate: func(r *Registration) {
				r.Email = ""
				r.Phone = ""
			},
			wantErr: "email, phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewParticipant(t *testing.T) {
	now := time.Date(2025, 8, 16, 14, 30, 0, 0, time.UTC)
	reg := validRegistration()
	reg.FirstName = "  Kumar  "

	p := NewParticipant(reg, SourceOnSite, now)

	if p.FirstName != "Kumar" {
		t.Errorf("FirstName = %q, want trimmed", p.FirstName)
	}
	if !p.WaiverSigned {
		t.Error("WaiverSigned = false")
	}
	if p.RegistrationTime != "2025-08-16T14:30:00Z" {
		t.Errorf("RegistrationTime = %q", p.RegistrationTime)
	}
	if p.Source != SourceOnSite {
		t.Errorf("Source = %q", p.Source)
	}
	if p.ID != "" {
		t.Errorf("ID = %q, want unassigned", p.ID)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		p    Participant
		want bool
	}{
		{name: "both names", p: Participant{FirstName: "A", LastName: "B"}, want: true},
		{name: "missing last", p: Participant{FirstName: "A"}, want: false},
		{name: "missing first", p: Participant{LastName: "B"}, want: false},
		{name: "empty", p: Participant{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
