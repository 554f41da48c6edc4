package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTokenReadsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "abc123"})

	token, ok := Token(c)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestTokenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "other", Value: "abc123"})

	_, ok := Token(c)
	assert.False(t, ok)

	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "  "})
	_, ok = Token(c)
	assert.False(t, ok)
}

func TestSetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Set(c, "tok", false)
	Clear(c, false)

	cookies := rec.Header().Values("Set-Cookie")
	if assert.Len(t, cookies, 2) {
		assert.True(t, strings.HasPrefix(cookies[0], CookieName+"=tok"))
		assert.Contains(t, cookies[0], "HttpOnly")
		assert.Contains(t, cookies[1], "Max-Age=0")
	}
}
