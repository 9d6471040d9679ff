package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/internal/service"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

type scheduleService interface {
	Schedule(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.ScheduleRow, error)
	Status(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.StatusRow, error)
	Rooms(ctx context.Context, session *models.SessionClaims, recordSet, subject string) ([]dto.RoomRow, error)
}

type scheduleExporter interface {
	ExportSchedule(ctx context.Context, session *models.SessionClaims, recordSet, format string) (*service.ExportFile, error)
}

// ScheduleHandler serves the per-record-set views.
type ScheduleHandler struct {
	service  scheduleService
	exporter scheduleExporter
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc scheduleService, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// Schedule godoc
// @Summary Exam schedule
// @Tags Record Sets
// @Produce json
// @Security BearerAuth
// @Param name path string true "Record set name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /record-sets/{name}/schedule [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	rows, err := h.service.Schedule(c.Request.Context(), session, c.Param("name"))
	response.Outcome(c, dataOrNil(rows), err)
}

// Status godoc
// @Summary Verification status
// @Tags Record Sets
// @Produce json
// @Security BearerAuth
// @Param name path string true "Record set name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /record-sets/{name}/status [get]
func (h *ScheduleHandler) Status(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	rows, err := h.service.Status(c.Request.Context(), session, c.Param("name"))
	response.Outcome(c, dataOrNil(rows), err)
}

// Rooms godoc
// @Summary Room assignments
// @Description Each row reveals its room only on the exam day
// @Tags Record Sets
// @Produce json
// @Security BearerAuth
// @Param name path string true "Record set name"
// @Param subject query string false "Subject name or code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /record-sets/{name}/rooms [get]
func (h *ScheduleHandler) Rooms(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	rows, err := h.service.Rooms(c.Request.Context(), session, c.Param("name"), c.Query("subject"))
	response.Outcome(c, dataOrNil(rows), err)
}

// Export godoc
// @Summary Download the exam schedule
// @Tags Record Sets
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param name path string true "Record set name"
// @Param format query string false "pdf or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /record-sets/{name}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	file, err := h.exporter.ExportSchedule(c.Request.Context(), session, c.Param("name"), c.DefaultQuery("format", service.FormatPDF))
	if err != nil {
		response.Outcome(c, nil, err)
		return
	}
	sendAttachment(c, file.Filename, file.ContentType, file.Data)
}

// dataOrNil keeps a nil slice out of the envelope so failed lookups carry no data.
func dataOrNil[T any](rows []T) interface{} {
	if rows == nil {
		return nil
	}
	return rows
}
