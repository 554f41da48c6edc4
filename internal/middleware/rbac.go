package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/response"
	"github.com/noah-isme/advisor-assessment/pkg/session"
)

// ContextRoleKey holds the resolved models.Role for downstream handlers.
const ContextRoleKey = "session.role"

// printSuffix marks report routes that render without page chrome. They keep the role
// check but answer 401 or 403 instead of redirecting.
const printSuffix = "/print"

// RoleResolver resolves the role of the session carried by ctx.
type RoleResolver interface {
	Resolve(ctx context.Context) (models.Role, bool)
}

// Area gates a page area to one role. Visitors without a session or whose role cannot
// be resolved go to the login page; users of another role go to their own home.
// Print routes under the area get the same check through RequireRole.
func Area(resolver RoleResolver, area models.Role) gin.HandlerFunc {
	printGate := RequireRole(resolver, area)
	return func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, printSuffix) {
			printGate(c)
			return
		}
		if _, ok := session.Token(c); !ok {
			redirect(c, models.LoginPath)
			return
		}
		role, ok := resolver.Resolve(c.Request.Context())
		if !ok {
			redirect(c, models.LoginPath)
			return
		}
		if role != area {
			redirect(c, role.Home())
			return
		}
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireRole is the API counterpart of Area: it answers 401 or 403 instead of redirecting.
func RequireRole(resolver RoleResolver, roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := session.Token(c); !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		role, ok := resolver.Resolve(c.Request.Context())
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RoleFrom returns the role stored by Area or RequireRole.
func RoleFrom(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextRoleKey)
	if !ok {
		return models.RoleNone, false
	}
	role, ok := v.(models.Role)
	return role, ok
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
