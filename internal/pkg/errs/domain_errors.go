package errs

import (
	"errors"
	"fmt"
	"time"
)

// Domain-specific sentinel errors for the claim/reset usecase layers
var (
	// Coupon errors
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponAlreadyClaimed = errors.New("coupon already claimed")
	ErrCouponExpired        = errors.New("coupon expired")

	// Cooldown errors
	ErrCooldownActive = errors.New("cooldown active")

	// Operation errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CooldownActiveError carries the remaining wait so the boundary layer can
// render it; errors.Is(err, ErrCooldownActive) still matches.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active: %s remaining", e.Remaining)
}

func (e *CooldownActiveError) Is(target error) bool {
	return target == ErrCooldownActive
}

func NewCooldownActive(remaining time.Duration) error {
	return &CooldownActiveError{Remaining: remaining}
}

// CooldownRemaining extracts the remaining wait from a cooldown error.
func CooldownRemaining(err error) (time.Duration, bool) {
	var ce *CooldownActiveError
	if errors.As(err, &ce) {
		return ce.Remaining, true
	}
	return 0, false
}
