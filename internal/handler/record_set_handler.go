package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

type catalogService interface {
	RecordSets(ctx context.Context, session *models.SessionClaims) ([]models.RecordSet, error)
}

// RecordSetHandler lists the record sets a student may browse.
type RecordSetHandler struct {
	service catalogService
}

// NewRecordSetHandler constructs a RecordSetHandler.
func NewRecordSetHandler(svc catalogService) *RecordSetHandler {
	return &RecordSetHandler{service: svc}
}

// List godoc
// @Summary Record sets of the student's cohort
// @Tags Record Sets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /record-sets [get]
func (h *RecordSetHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	sets, err := h.service.RecordSets(c.Request.Context(), session)
	if sets == nil {
		response.Outcome(c, nil, err)
		return
	}
	items := make([]dto.RecordSetResponse, 0, len(sets))
	for _, set := range sets {
		items = append(items, dto.RecordSetResponse{Name: set.Name})
	}
	response.Outcome(c, items, err)
}
