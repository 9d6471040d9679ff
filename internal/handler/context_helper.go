package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/middleware"
	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

// sessionFromContext returns the request session or writes 401.
func sessionFromContext(c *gin.Context) (*models.SessionClaims, bool) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "login required"))
		return nil, false
	}
	return session, true
}

func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
