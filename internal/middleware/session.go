package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/pkg/database"
	"github.com/noah-isme/advisor-assessment/pkg/session"
)

// Session binds a database client carrying the request's session token to the request
// context. Requests without the cookie get an unauthenticated client.
func Session(factory *database.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := session.Token(c)
		ctx := database.NewContext(c.Request.Context(), factory.New(token))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
