//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"coupon-drop/internal/infra"
	"coupon-drop/internal/pkg/errs"
	"coupon-drop/internal/usecase/commands"
	repositorymock "coupon-drop/tests/mock/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResetAll_ReturnsCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	couponRepo := repositorymock.NewMockCouponRepository(ctrl)
	cooldownRepo := repositorymock.NewMockCooldownRepository(ctrl)
	resetCommands := commands.NewResetCommands(stubUoW{}, couponRepo, cooldownRepo)
	ctx := context.Background()

	couponRepo.EXPECT().ResetAllClaims(ctx, gomock.Any()).Return(int64(3), nil)
	cooldownRepo.EXPECT().DeleteAll(ctx, gomock.Any()).Return(int64(5), nil)

	stats, err := resetCommands.ResetAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.CouponsReset)
	assert.Equal(t, int64(5), stats.CooldownRecordsDeleted)
}

func TestResetAll_IdempotentSecondRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	couponRepo := repositorymock.NewMockCouponRepository(ctrl)
	cooldownRepo := repositorymock.NewMockCooldownRepository(ctrl)
	resetCommands := commands.NewResetCommands(stubUoW{}, couponRepo, cooldownRepo)
	ctx := context.Background()

	couponRepo.EXPECT().ResetAllClaims(ctx, gomock.Any()).Return(int64(0), nil)
	cooldownRepo.EXPECT().DeleteAll(ctx, gomock.Any()).Return(int64(0), nil)

	stats, err := resetCommands.ResetAll(ctx)

	require.NoError(t, err)
	assert.Zero(t, stats.CouponsReset)
	assert.Zero(t, stats.CooldownRecordsDeleted)
}

func TestResetAll_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	couponRepo := repositorymock.NewMockCouponRepository(ctrl)
	cooldownRepo := repositorymock.NewMockCooldownRepository(ctrl)
	resetCommands := commands.NewResetCommands(stubUoW{}, couponRepo, cooldownRepo)
	ctx := context.Background()

	couponRepo.EXPECT().ResetAllClaims(ctx, gomock.Any()).
		Return(int64(0), infra.WrapRepoErr("connection lost", errors.New("broken pipe")))

	stats, err := resetCommands.ResetAll(ctx)

	require.Nil(t, stats)
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
}
