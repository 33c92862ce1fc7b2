// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/wattwise/internal/domain"
)

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	City        *string
	HomeType    *string
	Heating     *string
	People      *string
	KnowsTariff *bool
	Reminders   *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.City == nil && p.HomeType == nil && p.Heating == nil &&
		p.People == nil && p.KnowsTariff == nil && p.Reminders == nil
}

// AuditEvent is one append-only audit row. The raw user ID never reaches the
// events table; the store derives and persists a one-way hash instead.
type AuditEvent struct {
	SessionID string
	State     string
	Event     string
	Command   string
	Payload   map[string]any
	IsDemo    bool
}

// Repository defines the persistence contract consumed by the controller.
// All calls are per-user scoped and assumed durable on return.
type Repository interface {
	// UpsertUser creates the user row on first contact or refreshes its
	// chat reference.
	UpsertUser(ctx context.Context, userID, chatRef string) error

	// GetProfile retrieves the stored profile, or nil if the user is unknown.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// SetProfileFields applies a partial profile update.
	SetProfileFields(ctx context.Context, userID string, patch ProfilePatch) error

	// SaveBillRecord appends an immutable bill snapshot.
	SaveBillRecord(ctx context.Context, userID string, kind domain.BillKind, obs *domain.Observation, tariff *float64) error

	// GetLatestBillRecord returns the newest bill of the given kind, or nil.
	GetLatestBillRecord(ctx context.Context, userID string, kind domain.BillKind) (*domain.BillRecord, error)

	// RecordActionAcknowledged stores a "marked done" action reference.
	RecordActionAcknowledged(ctx context.Context, userID, actionRef string) error

	// ResetUserData wipes bills, acknowledged actions, and profile fields.
	ResetUserData(ctx context.Context, userID string) error

	// AppendAuditEvent writes one redacted audit row.
	AppendAuditEvent(ctx context.Context, userID string, ev AuditEvent) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying database.
	Close() error
}
