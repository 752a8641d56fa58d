package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyClaimed = errors.New("coupon has already been claimed")
	ErrCouponExpired  = errors.New("coupon has expired")
)

// Coupon is a single-use voucher from a fixed pool. It is created out of
// band (seed data), claimed at most once between resets, and never deleted.
type Coupon struct {
	id          uuid.UUID
	name        string
	description string
	code        Code
	value       Value
	expiresAt   *time.Time
	claimed     bool
}

func NewCoupon(
	id uuid.UUID,
	name string,
	description string,
	code string,
	value int,
	expiresAt *time.Time,
	claimed bool,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	couponValue, err := NewValue(value)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:          id,
		name:        name,
		description: description,
		code:        couponCode,
		value:       couponValue,
		expiresAt:   expiresAt,
		claimed:     claimed,
	}, nil
}

func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return c.expiresAt != nil && t.After(*c.expiresAt)
}

// Claim transitions the coupon to claimed. The durable conditional update is
// the real serialization point; this guard rejects what is already known to
// be claimed before touching the store.
func (c *Coupon) Claim(now time.Time) error {
	if c.claimed {
		return ErrAlreadyClaimed
	}
	if c.IsExpiredAt(now) {
		return ErrCouponExpired
	}
	c.claimed = true
	return nil
}

func (c *Coupon) Reset() {
	c.claimed = false
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Name() string          { return c.name }
func (c *Coupon) Description() string   { return c.description }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Value() Value          { return c.value }
func (c *Coupon) ExpiresAt() *time.Time { return c.expiresAt }
func (c *Coupon) Claimed() bool         { return c.claimed }
