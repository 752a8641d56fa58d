//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestCoupon inserts one coupon and returns its id.
func CreateTestCoupon(t *testing.T, db DBLike, name, code string, value int) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO coupons (id, name, description, code, value) VALUES ($1, $2, $3, $4, $5)",
		couponID, name, name+" test coupon", code, value)
	require.NoError(t, err)

	return couponID
}

// CreateExpiredTestCoupon inserts a coupon whose expiry is already in the past.
func CreateExpiredTestCoupon(t *testing.T, db DBLike, name, code string, value int) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO coupons (id, name, description, code, value, expires_at) VALUES ($1, $2, $3, $4, $5, now() - interval '1 day')",
		couponID, name, name+" test coupon", code, value)
	require.NoError(t, err)

	return couponID
}

// CreateCooldownRecord inserts a cooldown record with the given last claim time.
func CreateCooldownRecord(t *testing.T, db DBLike, fingerprint string, lastClaimTime time.Time) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO cooldown_records (fingerprint, last_claim_time) VALUES ($1, $2) ON CONFLICT (fingerprint) DO UPDATE SET last_claim_time = $2",
		fingerprint, lastClaimTime)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (name, description, code, value) VALUES
		    ('Welcome Coupon', 'Seeded welcome coupon', 'WELCOME-10', 10),
		    ('Loyalty Coupon', 'Seeded loyalty coupon', 'LOYAL-20', 20)
		ON CONFLICT DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
