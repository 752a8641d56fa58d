package repository

import (
	"context"
	"errors"
	"time"

	"coupon-drop/internal/domain/cooldown"
	"coupon-drop/internal/infra"
	"coupon-drop/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

type CooldownRepository struct{}

func NewCooldownRepository() *CooldownRepository {
	return &CooldownRepository{}
}

// FindForUpdate locks the fingerprint's row until the surrounding
// transaction ends. Concurrent claims from the same fingerprint queue here,
// so the second one sees the first one's committed lastClaimTime.
func (r *CooldownRepository) FindForUpdate(ctx context.Context, tx db.DBTX, fingerprint string) (*cooldown.Record, error) {
	const query = `
		SELECT fingerprint, last_claim_time
		FROM cooldown_records
		WHERE fingerprint = $1
		FOR UPDATE`

	var record cooldown.Record
	err := tx.QueryRow(ctx, query, fingerprint).Scan(
		&record.Fingerprint,
		&record.LastClaimTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("cooldown record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cooldown record", err)
	}

	return &record, nil
}

// Insert relies on the primary key for the first-claim tie-break: when two
// transactions race on the same absent fingerprint, the second insert waits
// on the unique index and then reports zero rows.
func (r *CooldownRepository) Insert(ctx context.Context, tx db.DBTX, fingerprint string, at time.Time) (int64, error) {
	const query = `
		INSERT INTO cooldown_records (fingerprint, last_claim_time)
		VALUES ($1, $2)
		ON CONFLICT (fingerprint) DO NOTHING`

	tag, err := tx.Exec(ctx, query, fingerprint, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to insert cooldown record", err)
	}

	return tag.RowsAffected(), nil
}

func (r *CooldownRepository) Refresh(ctx context.Context, tx db.DBTX, fingerprint string, at time.Time) error {
	const query = `
		UPDATE cooldown_records
		SET last_claim_time = $2, updated_at = now()
		WHERE fingerprint = $1`

	tag, err := tx.Exec(ctx, query, fingerprint, at)
	if err != nil {
		return infra.WrapRepoErr("failed to refresh cooldown record", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cooldown record vanished during refresh", nil, infra.KindConflict)
	}

	return nil
}

func (r *CooldownRepository) DeleteAll(ctx context.Context, tx db.DBTX) (int64, error) {
	const query = `DELETE FROM cooldown_records`

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete cooldown records", err)
	}

	return tag.RowsAffected(), nil
}
