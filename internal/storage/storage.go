// Package storage defines the Storage interface — the contract any
// database backend must satisfy. Handlers depend only on this
// interface, so swapping the backend means implementing it for the new
// database and changing one line in main, and tests can pass a fake.
package storage

import (
	"context"
	"errors"

	"github.com/hackfest-dev/hackathon-api/internal/types"
)

// Sentinel errors the HTTP layer maps to status codes. Match with
// errors.Is; implementations may wrap them with detail.
var (
	// ErrNotFound means no record exists for the given id.
	ErrNotFound = errors.New("participant not found")

	// ErrDuplicateEmail means a record with the same email already
	// exists. Email is the sole uniqueness key across participants.
	ErrDuplicateEmail = errors.New("a participant with this email already exists")
)

// Filter narrows listing and counting. Zero values mean "no
// constraint". TechStack matches records holding at least one of the
// requested tags; Degree and YearOfStudy are exact matches.
type Filter struct {
	TechStack   []string
	Degree      string
	YearOfStudy string
}

// Storage is the database contract.
type Storage interface {
	// CreateParticipant inserts a validated record, assigning the id,
	// defaulting registration_date and verification_status, and
	// maintaining created_at/updated_at. Returns ErrDuplicateEmail if
	// the email is already registered.
	CreateParticipant(ctx context.Context, p types.Participant) (types.Participant, error)

	// GetParticipantByID fetches one record. Returns ErrNotFound if
	// absent. Malformed identifiers never reach the store; the HTTP
	// layer rejects them first so 400 and 404 stay distinct.
	GetParticipantByID(ctx context.Context, id int64) (types.Participant, error)

	// GetParticipants returns matching records ordered by registration
	// time, most recent first. limit <= 0 means no pagination.
	GetParticipants(ctx context.Context, f Filter, limit, offset int) ([]types.Participant, error)

	// CountParticipants returns the cardinality of the filter.
	CountParticipants(ctx context.Context, f Filter) (int64, error)

	// UpdateParticipantByID overwrites the mutable fields of an
	// existing record with the merged, re-validated values and returns
	// the post-update record. registration_date, created_at, and
	// verification_status are preserved: plain updates never touch the
	// status. Returns ErrNotFound or ErrDuplicateEmail.
	UpdateParticipantByID(ctx context.Context, id int64, p types.Participant) (types.Participant, error)

	// DeleteParticipantByID removes a record permanently. Returns
	// ErrNotFound if absent.
	DeleteParticipantByID(ctx context.Context, id int64) error

	// SetVerificationStatus mutates only the verification_status field
	// and returns the full record. The status value is validated by
	// the caller before the lookup.
	SetVerificationStatus(ctx context.Context, id int64, status string) (types.Participant, error)
}
