package feed

import "sangamam/internal/participant"

// SampleParticipants returns the built-in demo roster used when neither
// the sheet nor a cached copy is reachable. It keeps the app demonstrable
// fully offline and unconfigured.
func SampleParticipants() []participant.Participant {
	return []participant.Participant{
		{
			ID:        "gs_1",
			FirstName: "Ramesh",
			LastName:  "Patel",
			Email:     "ramesh.patel@email.com",
			Phone:     "(408) 555-0123",
			Source:    participant.SourceGoogleSheets,
		},
		{
			ID:        "gs_2",
			FirstName: "Priya",
			LastName:  "Sharma",
			Email:     "priya.sharma@email.com",
			Phone:     "(408) 987-6543",
			Source:    participant.SourceGoogleSheets,
		},
		{
			ID:        "gs_3",
			FirstName: "Kumar",
			LastName:  "Krishnan",
			Email:     "kumar.krishnan@email.com",
			Phone:     "(408) 456-7890",
			Source:    participant.SourceGoogleSheets,
		},
	}
}
