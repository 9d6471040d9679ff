package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/pkg/response"
)

type hallTicketService interface {
	ListCollections(ctx context.Context) ([]string, error)
	Download(ctx context.Context, session *models.SessionClaims, collection string) (*models.HallTicketFile, error)
	CreateLink(ctx context.Context, session *models.SessionClaims, collection string) (*dto.HallTicketLinkResponse, error)
	DownloadByToken(ctx context.Context, token string) (*models.HallTicketFile, error)
}

// HallTicketHandler serves hall ticket listings and downloads.
type HallTicketHandler struct {
	service hallTicketService
}

// NewHallTicketHandler constructs a HallTicketHandler.
func NewHallTicketHandler(svc hallTicketService) *HallTicketHandler {
	return &HallTicketHandler{service: svc}
}

// Collections godoc
// @Summary Hall ticket collections
// @Tags Hall Tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hall-tickets/collections [get]
func (h *HallTicketHandler) Collections(c *gin.Context) {
	if _, ok := sessionFromContext(c); !ok {
		return
	}
	names, err := h.service.ListCollections(c.Request.Context())
	response.Outcome(c, dataOrNil(names), err)
}

// Download godoc
// @Summary Download the student's hall ticket
// @Tags Hall Tickets
// @Produce application/pdf
// @Security BearerAuth
// @Param collection path string true "Hall ticket collection"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /hall-tickets/{collection}/download [get]
func (h *HallTicketHandler) Download(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	file, err := h.service.Download(c.Request.Context(), session, c.Param("collection"))
	if err != nil {
		response.Outcome(c, nil, err)
		return
	}
	sendAttachment(c, file.Filename, file.ContentType, file.Data)
}

// CreateLink godoc
// @Summary Create a signed download link
// @Tags Hall Tickets
// @Produce json
// @Security BearerAuth
// @Param collection path string true "Hall ticket collection"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hall-tickets/{collection}/link [post]
func (h *HallTicketHandler) CreateLink(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	link, err := h.service.CreateLink(c.Request.Context(), session, c.Param("collection"))
	if err != nil {
		response.Outcome(c, nil, err)
		return
	}
	response.JSON(c, http.StatusCreated, link)
}

// DownloadByToken godoc
// @Summary Download a hall ticket through a signed link
// @Tags Hall Tickets
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /downloads/hall-tickets/{token} [get]
func (h *HallTicketHandler) DownloadByToken(c *gin.Context) {
	file, err := h.service.DownloadByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Outcome(c, nil, err)
		return
	}
	sendAttachment(c, file.Filename, file.ContentType, file.Data)
}
