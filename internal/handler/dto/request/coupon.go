package request

import (
	"github.com/google/uuid"
)

type ClaimCouponRequest struct {
	CouponID uuid.UUID `json:"couponId" binding:"required"`
}
