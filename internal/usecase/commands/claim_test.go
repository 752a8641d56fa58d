//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"coupon-drop/internal/domain/cooldown"
	"coupon-drop/internal/infra"
	"coupon-drop/internal/infra/db"
	"coupon-drop/internal/pkg/clock"
	"coupon-drop/internal/pkg/config"
	"coupon-drop/internal/pkg/errs"
	"coupon-drop/internal/usecase/commands"
	repositorymock "coupon-drop/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubUoW runs the transaction body directly; rollback semantics are covered
// by the e2e suite against real Postgres.
type stubUoW struct{}

func (stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

type claimFixture struct {
	couponRepo   *repositorymock.MockCouponRepository
	cooldownRepo *repositorymock.MockCooldownRepository
	clock        *clock.MockClock
	commands     commands.ClaimCommands
}

func newClaimFixture(t *testing.T, period time.Duration) *claimFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &claimFixture{
		couponRepo:   repositorymock.NewMockCouponRepository(ctrl),
		cooldownRepo: repositorymock.NewMockCooldownRepository(ctrl),
		clock:        clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
	}

	cfg := config.Config{}
	cfg.Claim.CooldownPeriod = period
	f.commands = commands.NewClaimCommands(stubUoW{}, f.couponRepo, f.cooldownRepo, f.clock, cfg)
	return f
}

func notFoundErr() error {
	return infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound)
}

func unclaimedCoupon(id uuid.UUID) *commands.CouponSnapshot {
	return &commands.CouponSnapshot{
		ID:          id,
		Name:        "Free Coffee",
		Description: "One free coffee",
		Code:        "COFFEE-2025",
		Value:       5,
		Claimed:     false,
	}
}

func TestClaim_FirstClaimSucceeds(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(1), nil)
	f.cooldownRepo.EXPECT().Insert(ctx, gomock.Any(), "203.0.113.7", now).Return(int64(1), nil)

	result, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Coupon.Claimed)
	assert.Equal(t, "COFFEE-2025", result.Coupon.Code)
	assert.Equal(t, time.Hour, result.CooldownPeriod)
}

func TestClaim_DeniedInsideCooldownWindow(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	// Last claim 10 seconds ago; the coupon is read for the status checks,
	// but no write may happen.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(&cooldown.Record{
		Fingerprint:   "203.0.113.7",
		LastClaimTime: now.Add(-10 * time.Second),
	}, nil)
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)

	result, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.Nil(t, result)
	require.ErrorIs(t, err, errs.ErrCooldownActive)

	remaining, ok := errs.CooldownRemaining(err)
	require.True(t, ok)
	assert.Equal(t, time.Hour-10*time.Second, remaining)
}

func TestClaim_AllowedAfterWindowElapsed(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	// Existing record outside the window: refresh, not insert.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(&cooldown.Record{
		Fingerprint:   "203.0.113.7",
		LastClaimTime: now.Add(-2 * time.Hour),
	}, nil)
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(1), nil)
	f.cooldownRepo.EXPECT().Refresh(ctx, gomock.Any(), "203.0.113.7", now).Return(nil)

	result, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.NoError(t, err)
	assert.True(t, result.Coupon.Claimed)
}

func TestClaim_AllowedExactlyAtWindowBoundary(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(&cooldown.Record{
		Fingerprint:   "203.0.113.7",
		LastClaimTime: now.Add(-time.Hour),
	}, nil)
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(1), nil)
	f.cooldownRepo.EXPECT().Refresh(ctx, gomock.Any(), "203.0.113.7", now).Return(nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)
	require.NoError(t, err)
}

func TestClaim_MarkerAloneNeverDenies(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	// Marker present but no server record (e.g. stale cookie after a reset):
	// the claim goes through on the authoritative state.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(1), nil)
	f.cooldownRepo.EXPECT().Insert(ctx, gomock.Any(), "203.0.113.7", now).Return(int64(1), nil)

	result, err := f.commands.Claim(ctx, "203.0.113.7", true, couponID)

	require.NoError(t, err)
	assert.True(t, result.Coupon.Claimed)
}

func TestClaim_CouponNotFound(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(nil, notFoundErr())

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	// No cooldown write: the rejected attempt must not consume the window.
	require.ErrorIs(t, err, errs.ErrCouponNotFound)
}

func TestClaim_CouponAlreadyClaimed(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()

	claimed := unclaimedCoupon(couponID)
	claimed.Claimed = true

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(claimed, nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrCouponAlreadyClaimed)
}

func TestClaim_ClaimedCouponTakesPrecedenceOverCooldown(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	claimed := unclaimedCoupon(couponID)
	claimed.Claimed = true

	// Cooldown window is active AND the coupon is gone: the client is told
	// the coupon is claimed, not that their window is ticking.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(&cooldown.Record{
		Fingerprint:   "203.0.113.7",
		LastClaimTime: now.Add(-time.Second),
	}, nil)
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(claimed, nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrCouponAlreadyClaimed)
	require.NotErrorIs(t, err, errs.ErrCooldownActive)
}

func TestClaim_CouponExpired(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()

	expired := unclaimedCoupon(couponID)
	past := f.clock.Now().Add(-24 * time.Hour)
	expired.ExpiresAt = &past

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(expired, nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrCouponExpired)
}

func TestClaim_LostCouponRace(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()

	// The snapshot read saw claimed=false, but the conditional update reports
	// zero rows: another transaction flipped the coupon first.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(0), nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrCouponAlreadyClaimed)
}

func TestClaim_LostFingerprintRace(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()
	now := f.clock.Now()

	// Zero rows from the conflict-guarded insert: a concurrent first claim
	// took the fingerprint's window. The error rolls the allocation back.
	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").Return(nil, notFoundErr())
	f.couponRepo.EXPECT().FindByID(ctx, gomock.Any(), couponID).Return(unclaimedCoupon(couponID), nil)
	f.couponRepo.EXPECT().MarkClaimed(ctx, gomock.Any(), couponID).Return(int64(1), nil)
	f.cooldownRepo.EXPECT().Insert(ctx, gomock.Any(), "203.0.113.7", now).Return(int64(0), nil)

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrCooldownActive)
	remaining, ok := errs.CooldownRemaining(err)
	require.True(t, ok)
	assert.Equal(t, time.Hour, remaining)
}

func TestClaim_StoreFailure(t *testing.T) {
	f := newClaimFixture(t, time.Hour)
	ctx := context.Background()
	couponID := uuid.New()

	f.cooldownRepo.EXPECT().FindForUpdate(ctx, gomock.Any(), "203.0.113.7").
		Return(nil, infra.WrapRepoErr("connection lost", errors.New("broken pipe")))

	_, err := f.commands.Claim(ctx, "203.0.113.7", false, couponID)

	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
}
