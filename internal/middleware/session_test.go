package middleware

import (
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/advisor-assessment/pkg/database"
)

func TestSessionInstallsScopedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	factory := database.NewFactory(sqlx.NewDb(db, "sqlmock"))

	var seen []bool
	router := gin.New()
	router.Use(Session(factory))
	router.GET("/", func(c *gin.Context) {
		seen = append(seen, factory.FromContext(c.Request.Context()).Authenticated())
		c.Status(http.StatusOK)
	})

	get(router, "/", "tok-123")
	get(router, "/", "")

	assert.Equal(t, []bool{true, false}, seen)
}
