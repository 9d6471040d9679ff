package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

const recordSetCachePrefix = "record_sets:"

type recordSetRepository interface {
	ListByCohort(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error)
}

// CatalogService resolves which record sets a session may browse.
type CatalogService struct {
	repo    recordSetRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	timeout time.Duration
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(repo recordSetRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, timeout time.Duration) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, metrics: metrics, logger: logger, timeout: timeout}
}

// RecordSets returns the record sets of the session's cohort. An empty catalog
// is reported as EMPTY_RESULT alongside an empty slice.
func (s *CatalogService) RecordSets(ctx context.Context, session *models.SessionClaims) ([]models.RecordSet, error) {
	sets, err := s.list(ctx, session.Cohort())
	if err != nil {
		s.metrics.RecordLookup("record_sets", OutcomeStoreError)
		return nil, err
	}
	if len(sets) == 0 {
		s.metrics.RecordLookup("record_sets", OutcomeEmpty)
		return sets, appErrors.Clone(appErrors.ErrEmptyResult, "No record sets found for this student.")
	}
	s.metrics.RecordLookup("record_sets", OutcomeOK)
	return sets, nil
}

// Require returns the named record set when it belongs to the session's
// catalog and NOT_FOUND otherwise.
func (s *CatalogService) Require(ctx context.Context, session *models.SessionClaims, name string) (models.RecordSet, error) {
	sets, err := s.list(ctx, session.Cohort())
	if err != nil {
		return models.RecordSet{}, err
	}
	for _, set := range sets {
		if set.Name == name {
			return set, nil
		}
	}
	return models.RecordSet{}, appErrors.Clone(appErrors.ErrNotFound, "record set not found")
}

func (s *CatalogService) list(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error) {
	return readThrough(ctx, s.cache, recordSetCachePrefix+cohort.CacheKey(), func(ctx context.Context) ([]models.RecordSet, error) {
		lookupCtx, cancel := withStoreTimeout(ctx, s.timeout)
		defer cancel()

		start := time.Now()
		sets, err := s.repo.ListByCohort(lookupCtx, cohort)
		s.metrics.ObserveStoreQuery("record_sets", time.Since(start))
		if err != nil {
			s.logger.Error("record set lookup failed", zap.String("cohort", cohort.CacheKey()), zap.Error(err))
			return nil, storeUnavailable(err, "failed to list record sets")
		}
		if sets == nil {
			sets = []models.RecordSet{}
		}
		return sets, nil
	})
}
