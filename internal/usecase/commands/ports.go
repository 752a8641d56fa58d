package commands

import (
	"context"
	"time"

	"coupon-drop/internal/domain/cooldown"
	"coupon-drop/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side snapshot keeps commands independent of read-side view types
type CouponSnapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        string
	Value       int
	ExpiresAt   *time.Time
	Claimed     bool
}

// CouponRepository is the allocator's store access. MarkClaimed performs the
// conditional update that serializes concurrent claims per coupon: it flips
// claimed only when it is still false and reports the rows changed.
type CouponRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*CouponSnapshot, error)
	MarkClaimed(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error)
	ResetAllClaims(ctx context.Context, tx db.DBTX) (int64, error)
}

// CooldownRepository manages per-fingerprint cooldown records.
// FindForUpdate locks the record row for the rest of the transaction, which
// makes the check-then-commit sequence a per-fingerprint critical section.
// Insert uses a unique-key conflict as the tie-break for a fingerprint's
// first claim: zero rows means a concurrent request won.
type CooldownRepository interface {
	FindForUpdate(ctx context.Context, tx db.DBTX, fingerprint string) (*cooldown.Record, error)
	Insert(ctx context.Context, tx db.DBTX, fingerprint string, at time.Time) (int64, error)
	Refresh(ctx context.Context, tx db.DBTX, fingerprint string, at time.Time) error
	DeleteAll(ctx context.Context, tx db.DBTX) (int64, error)
}
