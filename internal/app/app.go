// Package app assembles the portal services for the selected store backend.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/handler"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/internal/repository"
	"github.com/noah-isme/hallticket-portal/internal/repository/mongostore"
	"github.com/noah-isme/hallticket-portal/internal/service"
	"github.com/noah-isme/hallticket-portal/pkg/cache"
	"github.com/noah-isme/hallticket-portal/pkg/config"
	"github.com/noah-isme/hallticket-portal/pkg/database"
	"github.com/noah-isme/hallticket-portal/pkg/storage"
)

type studentStore interface {
	FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
}

type recordSetStore interface {
	ListByCohort(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error)
}

type examRecordStore interface {
	FindForStudent(ctx context.Context, recordSet, rollNumber string) ([]models.ExamRecord, error)
}

type hallTicketStore interface {
	ListCollections(ctx context.Context) ([]string, error)
	Find(ctx context.Context, collection, rollNumber string) (*models.HallTicket, error)
}

// App holds the wired services and the connections they depend on.
type App struct {
	Metrics     *service.MetricsService
	Cache       *service.CacheService
	Auth        *service.AuthService
	Students    *service.StudentService
	Catalog     *service.CatalogService
	Schedule    *service.ScheduleService
	Export      *service.ExportService
	HallTickets *service.HallTicketService

	Checks map[string]handler.ReadinessCheck

	closers []func() error
}

// New connects to the configured store and builds every service.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Metrics: service.NewMetricsService(), Checks: make(map[string]handler.ReadinessCheck)}

	var (
		students    studentStore
		recordSets  recordSetStore
		examRecords examRecordStore
		hallTickets hallTicketStore
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := database.NewMongo(cfg.Mongo, cfg.Store.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		a.Checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		students = mongostore.NewStudentRepository(client, cfg.Mongo)
		recordSets = mongostore.NewRecordSetRepository(client, cfg.Mongo)
		examRecords = mongostore.NewExamRecordRepository(client, cfg.Mongo, cfg.Location())
		hallTickets = mongostore.NewHallTicketRepository(client, cfg.Mongo)
	default:
		db, err := database.NewPostgres(cfg.Database, cfg.Store.Timeout)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Checks["postgres"] = pingSQL(db)
		students = repository.NewStudentRepository(db)
		recordSets = repository.NewRecordSetRepository(db)
		examRecords = repository.NewExamRecordRepository(db)
		hallTickets = repository.NewHallTicketRepository(db)
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis, cfg.Store.Timeout)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logger)
			a.closers = append(a.closers, repo.Close)
			a.Checks["redis"] = pingRedis(client)
			cacheRepo = repo
		}
	}
	a.Cache = service.NewCacheService(cacheRepo, a.Metrics, cfg.Cache.TTL, logger, cacheRepo != nil)

	timeout := cfg.Store.Timeout
	a.Auth = service.NewAuthService(students, validator.New(), logger, service.AuthConfig{
		Secret:       cfg.Session.Secret,
		Expiry:       cfg.Session.Expiration,
		Issuer:       cfg.Session.Issuer,
		StoreTimeout: timeout,
	}).WithMetrics(a.Metrics)
	a.Students = service.NewStudentService(students, logger, timeout)
	a.Catalog = service.NewCatalogService(recordSets, a.Cache, a.Metrics, logger, timeout)
	a.Schedule = service.NewScheduleService(a.Catalog, examRecords, a.Metrics, logger, timeout, cfg.Location())
	a.Export = service.NewExportService(a.Schedule, logger, nil, nil)
	a.HallTickets = service.NewHallTicketService(
		hallTickets,
		storage.NewSignedURLSigner(cfg.Downloads.SignedURLSecret, cfg.Downloads.SignedURLTTL),
		a.Cache,
		a.Metrics,
		logger,
		service.HallTicketConfig{PublicBaseURL: cfg.PublicBaseURL, APIPrefix: cfg.APIPrefix, StoreTimeout: timeout},
	)

	return a, nil
}

// Close releases store and cache connections.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func pingSQL(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

func pingRedis(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

