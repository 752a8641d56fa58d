// Package cooldown holds the pure decision logic for the per-client claim
// rate limit. It computes a decision from state and time; it never persists
// anything itself, so the caller can delay the durable write until the
// coupon allocation is confirmed.
package cooldown

import "time"

// Record is the authoritative per-fingerprint cooldown state. The
// fingerprint is the caller's network address string; the client-side
// marker cookie is only an advisory copy of this record.
type Record struct {
	Fingerprint   string
	LastClaimTime time.Time
}

type Decision struct {
	Allowed   bool
	Remaining time.Duration
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(remaining time.Duration) Decision {
	return Decision{Remaining: remaining}
}

// Evaluate decides whether a fingerprint with the given record may claim at
// `now`. A nil record means the fingerprint has never claimed (or was reset)
// and is always allowed. The window is pure state/time comparison, not a
// timer.
func Evaluate(record *Record, now time.Time, period time.Duration) Decision {
	if record == nil {
		return Allow()
	}

	elapsed := now.Sub(record.LastClaimTime)
	if elapsed < period {
		return Deny(period - elapsed)
	}
	return Allow()
}
