package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	reqdto "coupon-drop/internal/handler/dto/request"
	resdto "coupon-drop/internal/handler/dto/response"
	"coupon-drop/internal/handler/httperr"
	"coupon-drop/internal/pkg/config"
	"coupon-drop/internal/pkg/cookie"
	"coupon-drop/internal/pkg/errs"
	"coupon-drop/internal/usecase/commands"
	"coupon-drop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	claimCommands commands.ClaimCommands
	resetCommands commands.ResetCommands
	couponQueries queries.CouponQueries
	cfg           config.Config
}

func NewCouponHandler(
	claimCommands commands.ClaimCommands,
	resetCommands commands.ResetCommands,
	couponQueries queries.CouponQueries,
	cfg config.Config,
) *CouponHandler {
	return &CouponHandler{
		claimCommands: claimCommands,
		resetCommands: resetCommands,
		couponQueries: couponQueries,
		cfg:           cfg,
	}
}

// @Summary Claim a coupon
// @Description Claim one coupon from the pool; at most one claim per client per cooldown window
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.ClaimCouponRequest true "Claim request"
// @Success 200 {object} resdto.ClaimCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /claim-coupon [post]
func (h *CouponHandler) Claim(c *gin.Context) {
	var req reqdto.ClaimCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	// The fingerprint comes from request metadata, never from the body.
	fingerprint := c.ClientIP()
	hasMarker := cookie.HasClaimMarker(c)

	result, err := h.claimCommands.Claim(c.Request.Context(), fingerprint, hasMarker, req.CouponID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCouponNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
		case errors.Is(err, errs.ErrCouponAlreadyClaimed):
			httperr.AbortWithError(c, http.StatusForbidden, err, "This coupon has already been claimed", nil)
		case errors.Is(err, errs.ErrCouponExpired):
			httperr.AbortWithError(c, http.StatusForbidden, err, "This coupon has expired", nil)
		case errors.Is(err, errs.ErrCooldownActive):
			remaining, _ := errs.CooldownRemaining(err)
			httperr.AbortWithError(c, http.StatusForbidden, err,
				fmt.Sprintf("You cannot redeem another coupon for %d minutes", remainingMinutes(remaining)), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	cookie.SetClaimMarker(c, h.cfg.Cookie, result.CooldownPeriod)

	c.JSON(http.StatusOK, resdto.ClaimCouponResponse{
		Success: true,
		Message: "Coupon successfully redeemed!",
		Coupon:  resdto.FromClaimedCoupon(result.Coupon),
	})
}

// @Summary List coupons
// @Description List all coupons with claimed status; codes are revealed only for claimed coupons
// @Tags coupons
// @Produce json
// @Success 200 {object} resdto.CouponListResponse
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	views, err := h.couponQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponList(views))
}

// @Summary Reset all coupons
// @Description Clear every claimed flag and cooldown record, and expire this client's claim marker
// @Tags coupons
// @Produce json
// @Success 200 {object} resdto.ResetCouponsResponse
// @Router /reset-coupons [post]
func (h *CouponHandler) Reset(c *gin.Context) {
	stats, err := h.resetCommands.ResetAll(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	// Best-effort: only the requesting client's marker can be expired here.
	cookie.ClearClaimMarker(c, h.cfg.Cookie)

	c.JSON(http.StatusOK, resdto.ResetCouponsResponse{
		Success: true,
		Message: "All coupons have been reset successfully",
		Stats: resdto.ResetStatsResponse{
			CouponsReset:           stats.CouponsReset,
			CooldownRecordsDeleted: stats.CooldownRecordsDeleted,
		},
	})
}

// remainingMinutes rounds up so the message never promises a shorter wait
// than the actual one.
func remainingMinutes(remaining time.Duration) int64 {
	minutes := int64(remaining / time.Minute)
	if remaining%time.Minute > 0 {
		minutes++
	}
	return minutes
}
