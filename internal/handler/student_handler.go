package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

type profileService interface {
	Profile(ctx context.Context, session *models.SessionClaims) (*models.Student, error)
}

// StudentHandler serves the signed-in student's profile.
type StudentHandler struct {
	service profileService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc profileService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Me godoc
// @Summary Current student profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	student, err := h.service.Profile(c.Request.Context(), session)
	response.Outcome(c, student, err)
}
