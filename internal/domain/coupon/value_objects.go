package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode  = errors.New("invalid coupon code format")
	ErrInvalidCouponValue = errors.New("coupon value cannot be negative")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9-]{3,32}$`)

type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Value int

func NewValue(v int) (Value, error) {
	if v < 0 {
		return Value(0), ErrInvalidCouponValue
	}
	return Value(v), nil
}

func (v Value) Int() int {
	return int(v)
}
