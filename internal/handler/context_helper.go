package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/response"
	"github.com/noah-isme/advisor-assessment/pkg/thaifmt"
)

var negotiated = []string{binding.MIMEHTML, binding.MIMEJSON}

// render answers with the named page template, or with the JSON envelope when the
// client prefers JSON.
func render(c *gin.Context, status int, name string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Negotiate(status, gin.Negotiate{
		Offered:  negotiated,
		HTMLName: name,
		HTMLData: data,
		JSONData: response.Envelope{Data: data},
	})
}

// renderError maps a service error onto a page response. A session without a profile
// goes back to the login page like any other unauthenticated visitor.
func renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	if appErr.Status == http.StatusUnauthorized && c.NegotiateFormat(negotiated...) == binding.MIMEHTML {
		c.Redirect(http.StatusFound, models.LoginPath)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Negotiate(appErr.Status, gin.Negotiate{
		Offered:  negotiated,
		HTMLName: "error.html",
		HTMLData: gin.H{"Status": appErr.Status, "Message": appErr.Message},
		JSONData: response.Envelope{Error: appErr},
	})
}

// roundParam parses a round id path parameter.
func roundParam(c *gin.Context, name string) (int64, error) {
	id, err := thaifmt.ParseRoundID(c.Param(name))
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid round id")
	}
	return id, nil
}

// roundQuery parses an optional round id query parameter; absent or malformed yields 0.
func roundQuery(c *gin.Context, name string) int64 {
	id, err := thaifmt.ParseRoundID(c.Query(name))
	if err != nil {
		return 0
	}
	return id
}
