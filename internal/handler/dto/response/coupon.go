package response

import (
	"time"

	"coupon-drop/internal/usecase/commands"
	"coupon-drop/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Code        *string    `json:"code,omitempty"`
	Value       int        `json:"value"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Claimed     bool       `json:"claimed"`
}

type CouponListResponse struct {
	Success bool             `json:"success"`
	Coupons []CouponResponse `json:"coupons"`
}

type ClaimCouponResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Coupon  CouponResponse `json:"coupon"`
}

type ResetStatsResponse struct {
	CouponsReset           int64 `json:"couponsReset"`
	CooldownRecordsDeleted int64 `json:"cooldownRecordsDeleted"`
}

type ResetCouponsResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Stats   ResetStatsResponse `json:"stats"`
}

func FromCouponView(v queries.CouponView) CouponResponse {
	return CouponResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Code:        v.Code,
		Value:       v.Value,
		ExpiresAt:   v.ExpiresAt,
		Claimed:     v.Claimed,
	}
}

func FromCouponList(views []queries.CouponView) CouponListResponse {
	coupons := make([]CouponResponse, len(views))
	for i, v := range views {
		coupons[i] = FromCouponView(v)
	}
	return CouponListResponse{
		Success: true,
		Coupons: coupons,
	}
}

// FromClaimedCoupon reveals the code: the claimant is the one caller allowed
// to see it.
func FromClaimedCoupon(snapshot *commands.CouponSnapshot) CouponResponse {
	code := snapshot.Code
	return CouponResponse{
		ID:          snapshot.ID,
		Name:        snapshot.Name,
		Description: snapshot.Description,
		Code:        &code,
		Value:       snapshot.Value,
		ExpiresAt:   snapshot.ExpiresAt,
		Claimed:     snapshot.Claimed,
	}
}
