package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"sangamam/internal/participant"
)

// RemoteStore is the contract the gateway needs from a remote database:
// insert with a returned identifier, list ordered by creation time
// descending, and update-by-identifier for attendance flags.
type RemoteStore interface {
	Insert(ctx context.Context, p participant.Participant) (string, error)
	List(ctx context.Context) ([]participant.Participant, error)
	SetAttendance(ctx context.Context, id, field string, at time.Time) error
}

// Remote is the Postgres implementation of RemoteStore.
type Remote struct {
	pool *pgxpool.Pool
}

// NewRemote wraps a pgx pool.
func NewRemote(pool *pgxpool.Pool) *Remote {
	return &Remote{pool: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS participants (
	id                TEXT PRIMARY KEY,
	first_name        TEXT NOT NULL,
	last_name         TEXT NOT NULL,
	email             TEXT,
	phone             TEXT,
	emergency_contact TEXT,
	emergency_phone   TEXT,
	additional_party  TEXT,
	waiver_signed     BOOLEAN NOT NULL DEFAULT FALSE,
	signature         TEXT,
	registration_time TEXT,
	checked_in        BOOLEAN NOT NULL DEFAULT FALSE,
	checked_out       BOOLEAN NOT NULL DEFAULT FALSE,
	check_in_time     TIMESTAMPTZ,
	check_out_time    TIMESTAMPTZ,
	source            TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the participants table if it does not exist.
func (r *Remote) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const insertSQL = `
INSERT INTO participants (
	id, first_name, last_name, email, phone,
	emergency_contact, emergency_phone, additional_party,
	waiver_signed, signature, registration_time,
	checked_in, checked_out, source
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id`

// Insert writes a registration and returns the stored identifier.
func (r *Remote) Insert(ctx context.Context, p participant.Participant) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, insertSQL,
		p.ID, p.FirstName, p.LastName,
		toPgText(p.Email), toPgText(p.Phone),
		toPgText(p.EmergencyContact), toPgText(p.EmergencyPhone), toPgText(p.AdditionalParty),
		p.WaiverSigned, toPgText(p.Signature), toPgText(p.RegistrationTime),
		p.CheckedIn, p.CheckedOut, string(p.Source),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert participant: %w", err)
	}
	return id, nil
}

const listSQL = `
SELECT id, first_name, last_name, email, phone,
	emergency_contact, emergency_phone, additional_party,
	waiver_signed, signature, registration_time,
	checked_in, checked_out, source
FROM participants
ORDER BY created_at DESC`

// List returns all registrations, newest first.
func (r *Remote) List(ctx context.Context) ([]participant.Participant, error) {
	rows, err := r.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []participant.Participant
	for rows.Next() {
		var (
			p      participant.Participant
			email, phone, emContact, emPhone,
			party, signature, regTime pgtype.Text
			source string
		)
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &email, &phone,
			&emContact, &emPhone, &party,
			&p.WaiverSigned, &signature, &regTime,
			&p.CheckedIn, &p.CheckedOut, &source,
		); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.Email = email.String
		p.Phone = phone.String
		p.EmergencyContact = emContact.String
		p.EmergencyPhone = emPhone.String
		p.AdditionalParty = party.String
		p.Signature = signature.String
		p.RegistrationTime = regTime.String
		p.Source = participant.Source(source)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}

// attendanceColumns maps a mirrored flag to its timestamp column.
// Anything else is rejected before it reaches the SQL text.
var attendanceColumns = map[string]string{
	"checked_in":  "check_in_time",
	"checked_out": "check_out_time",
}

// SetAttendance flips one attendance flag and stamps its time column.
func (r *Remote) SetAttendance(ctx context.Context, id, field string, at time.Time) error {
	timeCol, ok := attendanceColumns[field]
	if !ok {
		return fmt.Errorf("unknown attendance field: %q", field)
	}
	sql := fmt.Sprintf("UPDATE participants SET %s = TRUE, %s = $1 WHERE id = $2", field, timeCol)
	if _, err := r.pool.Exec(ctx, sql, at, id); err != nil {
		return fmt.Errorf("update %s for %s: %w", field, id, err)
	}
	return nil
}

// toPgText converts a string to pgtype.Text, mapping empty to NULL.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
