// Package session reads and writes the cookie holding the opaque session token.
//
// The token is never validated here; the database resolves it to an identity
// and decides whether it is still alive.
package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the only cookie the portal reads.
const CookieName = "session_token"

// Token returns the session token carried by the request, if any.
func Token(c *gin.Context) (string, bool) {
	if c == nil || c.Request == nil {
		return "", false
	}
	value, err := c.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Set stores the token without an explicit expiry; lifetime is owned by the backend.
func Set(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, 0, "/", "", secure, true)
}

// Clear removes the cookie.
func Clear(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
