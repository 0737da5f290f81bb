package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshTokenCookie is the cookie carrying the opaque refresh token.
const RefreshTokenCookie = "refresh_token"

// SetAuthCookies writes both auth cookies: the signed access token and the
// opaque refresh token. Both are HttpOnly, SameSite=Lax, Path=/; MaxAge equals
// the respective TTL so the browser drops them when the tokens would be dead
// anyway.
func SetAuthCookies(c *gin.Context, accessToken string, accessTTL time.Duration, refreshToken string, refreshTTL time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, int(accessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, int(refreshTTL.Seconds()), "/", "", false, true)
}

// ClearAuthCookies expires both auth cookies. Called on logout and whenever a
// refresh is rejected, so a browser holding a dead token pair stops presenting it.
func ClearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", false, true)
}
