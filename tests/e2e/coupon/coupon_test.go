//go:build e2e

package coupon_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"coupon-drop/internal/handler/dto/response"
	"coupon-drop/internal/pkg/cookie"
	"coupon-drop/tests/common/dbtest"
	"coupon-drop/tests/common/httptest"
	"coupon-drop/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	claimURL  = "/claim-coupon"
	listURL   = "/coupons"
	resetURL  = "/reset-coupons"
	clientIPA = "198.51.100.10"
	clientIPB = "198.51.100.20"
)

type CouponSuite struct {
	e2e.SharedSuite
}

func (s *CouponSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CouponSuite))
}

func claimBody(couponID uuid.UUID) map[string]any {
	return map[string]any{"couponId": couponID.String()}
}

func fromIP(ip string) map[string]string {
	return map[string]string{"X-Forwarded-For": ip}
}

// =============================================================================
// TestClaimCoupon - claim arbitration over real Postgres
// =============================================================================

func (s *CouponSuite) TestClaimCoupon() {
	s.Run("Normal case: first claim succeeds and reveals the code", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Free Coffee", "COFFEE-2025", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code, "first claim should succeed")

		var res response.ClaimCouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.True(t, res.Success)
		require.NotNil(t, res.Coupon.Code)
		require.Equal(t, "COFFEE-2025", *res.Coupon.Code)

		marker := httptest.ExtractCookie(w, cookie.ClaimMarkerCookieName)
		require.NotNil(t, marker, "marker cookie should be set")
		require.Equal(t, int(s.Config.Claim.CooldownPeriod.Seconds()), marker.MaxAge)
		require.True(t, marker.HttpOnly)
	})

	s.Run("Error case: second claim from the same client is denied by cooldown", func() {
		t := s.T()

		firstID := dbtest.CreateTestCoupon(t, s.DB, "First", "FIRST-1", 5)
		secondID := dbtest.CreateTestCoupon(t, s.DB, "Second", "SECOND-2", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(firstID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(secondID), fromIP(clientIPA), nil)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "You cannot redeem another coupon")

		// A different client is unaffected by the first client's window.
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(secondID), fromIP(clientIPB), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("Error case: a claimed coupon cannot be claimed again", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Single Use", "ONCE-1", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPB), nil)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "This coupon has already been claimed")
	})

	s.Run("Error case: re-posting the same coupon reports it as claimed, not the cooldown", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Repeated", "REPEAT-1", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)

		// Same client, same coupon, inside the window: the coupon status wins
		// over the cooldown denial.
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "This coupon has already been claimed")
	})

	s.Run("Error case: expired coupon is rejected without consuming the window", func() {
		t := s.T()

		expiredID := dbtest.CreateExpiredTestCoupon(t, s.DB, "Expired", "EXPIRED-1", 5)
		freshID := dbtest.CreateTestCoupon(t, s.DB, "Fresh", "FRESH-1", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(expiredID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusForbidden, w.Code)

		// The rejected attempt left no cooldown record behind.
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(freshID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("Error case: unknown coupon id returns 404", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(uuid.New()), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Normal case: claim allowed once the cooldown window has elapsed", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Later", "LATER-1", 5)
		dbtest.CreateCooldownRecord(t, s.DB, clientIPA, time.Now().Add(-s.Config.Claim.CooldownPeriod-time.Minute))

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("Normal case: stale marker without a server record does not deny", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Marked", "MARKED-1", 5)
		cookies := []*http.Cookie{{Name: cookie.ClaimMarkerCookieName, Value: "1"}}

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), cookies)
		require.Equal(t, http.StatusOK, w.Code, "server record is authoritative; the marker alone must not deny")
	})

	s.Run("Concurrency: one coupon claimed by two clients yields exactly one success", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Contested", "RACE-1", 5)

		var wg sync.WaitGroup
		codes := make([]int, 2)
		ips := []string{clientIPA, clientIPB}
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(ips[i]), nil)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		successes := 0
		for _, code := range codes {
			if code == http.StatusOK {
				successes++
			}
		}
		require.Equal(t, 1, successes, "exactly one concurrent claim may win, got %v", codes)
	})
}

// =============================================================================
// TestListCoupons - read side with code redaction
// =============================================================================

func (s *CouponSuite) TestListCoupons() {
	s.Run("Normal case: list shows all coupons, codes only for claimed ones", func() {
		t := s.T()

		claimedID := dbtest.CreateTestCoupon(t, s.DB, "Claimed One", "CLAIMED-1", 5)
		dbtest.CreateTestCoupon(t, s.DB, "Hidden One", "HIDDEN-1", 10)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(claimedID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res response.CouponListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.True(t, res.Success)

		byName := make(map[string]response.CouponResponse, len(res.Coupons))
		for _, c := range res.Coupons {
			byName[c.Name] = c
		}

		claimedCode := "CLAIMED-1"
		expectedClaimed := response.CouponResponse{
			Name:        "Claimed One",
			Description: "Claimed One test coupon",
			Code:        &claimedCode,
			Value:       5,
			Claimed:     true,
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.CouponResponse{}, "ID", "ExpiresAt"),
		}
		if diff := cmp.Diff(expectedClaimed, byName["Claimed One"], opts...); diff != "" {
			t.Errorf("claimed coupon mismatch (-want +got):\n%s", diff)
		}

		hidden, ok := byName["Hidden One"]
		require.True(t, ok)
		require.False(t, hidden.Claimed)
		require.Nil(t, hidden.Code, "unclaimed coupon code must be redacted")
	})
}

// =============================================================================
// TestResetCoupons - total reset semantics
// =============================================================================

func (s *CouponSuite) TestResetCoupons() {
	s.Run("Normal case: reset releases coupons and cooldown records", func() {
		t := s.T()

		couponID := dbtest.CreateTestCoupon(t, s.DB, "Resettable", "RESET-1", 5)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, resetURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res response.ResetCouponsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.True(t, res.Success)
		require.Equal(t, int64(1), res.Stats.CouponsReset)
		require.Equal(t, int64(1), res.Stats.CooldownRecordsDeleted)

		marker := httptest.ExtractCookie(w, cookie.ClaimMarkerCookieName)
		require.NotNil(t, marker)
		require.Negative(t, marker.MaxAge, "marker must be replaced with an expired cookie")

		// The same client and the same coupon are immediately claimable again.
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, claimURL, claimBody(couponID), fromIP(clientIPA), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("Normal case: reset is idempotent", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, resetURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, resetURL, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res response.ResetCouponsResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Zero(t, res.Stats.CouponsReset)
		require.Zero(t, res.Stats.CooldownRecordsDeleted)
	})
}
