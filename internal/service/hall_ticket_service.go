package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/hallticket"
	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/storage"
)

// MsgNoHallTicket is shown when the student has no ticket in a collection.
const MsgNoHallTicket = "No hall ticket found for this student."

const hallTicketCollectionsKey = "hall_ticket_collections"

type hallTicketRepository interface {
	ListCollections(ctx context.Context) ([]string, error)
	Find(ctx context.Context, collection, rollNumber string) (*models.HallTicket, error)
}

type downloadSigner interface {
	Generate(collection, rollNumber string) (string, time.Time, error)
	Parse(token string) (*storage.DownloadClaims, error)
}

// HallTicketConfig tunes link generation.
type HallTicketConfig struct {
	PublicBaseURL string
	APIPrefix     string
	StoreTimeout  time.Duration
}

// HallTicketService lists hall ticket collections and delivers tickets.
type HallTicketService struct {
	repo    hallTicketRepository
	signer  downloadSigner
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     HallTicketConfig
}

// NewHallTicketService constructs a HallTicketService. cache may be nil.
func NewHallTicketService(repo hallTicketRepository, signer downloadSigner, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg HallTicketConfig) *HallTicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HallTicketService{repo: repo, signer: signer, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// ListCollections returns the hall ticket collection names in order.
func (s *HallTicketService) ListCollections(ctx context.Context) ([]string, error) {
	names, err := readThrough(ctx, s.cache, hallTicketCollectionsKey, func(ctx context.Context) ([]string, error) {
		lookupCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout)
		defer cancel()

		start := time.Now()
		names, err := s.repo.ListCollections(lookupCtx)
		s.metrics.ObserveStoreQuery("hall_ticket_collections", time.Since(start))
		if err != nil {
			s.logger.Error("hall ticket collection listing failed", zap.Error(err))
			return nil, storeUnavailable(err, "failed to list hall ticket collections")
		}
		if names == nil {
			names = []string{}
		}
		sort.Strings(names)
		return names, nil
	})
	if err != nil {
		s.metrics.RecordLookup("hall_ticket_collections", OutcomeStoreError)
		return nil, err
	}
	return finishView(s.metrics, "hall_ticket_collections", names, "No hall ticket collections are available.")
}

// Download returns the session student's decoded hall ticket from collection.
func (s *HallTicketService) Download(ctx context.Context, session *models.SessionClaims, collection string) (*models.HallTicketFile, error) {
	return s.fetch(ctx, collection, session.RollNumber)
}

// CreateLink issues a signed, expiring download URL for the session student's
// ticket. The ticket must exist when the link is created.
func (s *HallTicketService) CreateLink(ctx context.Context, session *models.SessionClaims, collection string) (*dto.HallTicketLinkResponse, error) {
	if _, err := s.fetch(ctx, collection, session.RollNumber); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(collection, session.RollNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	link := fmt.Sprintf("%s%s/downloads/hall-tickets/%s",
		strings.TrimRight(s.cfg.PublicBaseURL, "/"), s.cfg.APIPrefix, url.PathEscape(token))
	return &dto.HallTicketLinkResponse{URL: link, ExpiresAt: expiresAt.UTC()}, nil
}

// DownloadByToken delivers the ticket named by a signed link.
func (s *HallTicketService) DownloadByToken(ctx context.Context, token string) (*models.HallTicketFile, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	return s.fetch(ctx, claims.Collection, claims.RollNumber)
}

func (s *HallTicketService) fetch(ctx context.Context, collection, rollNumber string) (*models.HallTicketFile, error) {
	lookupCtx, cancel := withStoreTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	start := time.Now()
	ticket, err := s.repo.Find(lookupCtx, collection, rollNumber)
	s.metrics.ObserveStoreQuery("hall_ticket", time.Since(start))
	if err != nil {
		if isNoRows(err) {
			s.metrics.RecordLookup("hall_ticket", OutcomeNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, MsgNoHallTicket)
		}
		s.metrics.RecordLookup("hall_ticket", OutcomeStoreError)
		s.logger.Error("hall ticket lookup failed", zap.String("collection", collection), zap.Error(err))
		return nil, storeUnavailable(err, "failed to load hall ticket")
	}

	data, err := hallticket.Decode(ticket.Payload)
	if err != nil {
		s.metrics.RecordLookup("hall_ticket", OutcomeNotFound)
		s.logger.Warn("stored hall ticket could not be decoded",
			zap.String("collection", collection),
			zap.String("roll_number", rollNumber),
			zap.Error(err),
		)
		return nil, appErrors.Clone(appErrors.ErrNotFound, MsgNoHallTicket)
	}
	if !hallticket.IsPDF(data) {
		s.logger.Warn("stored hall ticket is not a PDF document",
			zap.String("collection", collection),
			zap.String("roll_number", rollNumber),
		)
	}
	s.metrics.RecordLookup("hall_ticket", OutcomeOK)
	return &models.HallTicketFile{
		Filename:    hallticket.Filename(rollNumber),
		ContentType: hallticket.ContentType,
		Data:        data,
	}, nil
}
