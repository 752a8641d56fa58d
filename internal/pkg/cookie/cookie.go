package cookie

import (
	"net/http"
	"time"

	"coupon-drop/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

// ClaimMarkerCookieName is the opaque client-side marker asserting "this
// client already claimed within the current cooldown window". It is a
// latency optimization only; the server-side cooldown record is the sole
// authority and the marker is never trusted for correctness.
const ClaimMarkerCookieName = "coupon_claimed"

func SetClaimMarker(c *gin.Context, cfg config.CookieConfig, cooldown time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		ClaimMarkerCookieName,
		"1",
		int(cooldown.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

// ClearClaimMarker replaces the marker with an already-expired cookie.
// This only reaches the requesting client; other clients' markers lapse
// by natural expiry.
func ClearClaimMarker(c *gin.Context, cfg config.CookieConfig) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		ClaimMarkerCookieName,
		"",
		-1,
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}

func HasClaimMarker(c *gin.Context) bool {
	_, err := c.Cookie(ClaimMarkerCookieName)
	return err == nil
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
