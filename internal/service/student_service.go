package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

type studentRepository interface {
	FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
}

// StudentService serves the directory profile of the signed-in student.
type StudentService struct {
	repo    studentRepository
	logger  *zap.Logger
	timeout time.Duration
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, logger *zap.Logger, timeout time.Duration) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger, timeout: timeout}
}

// Profile returns the student named by the session.
func (s *StudentService) Profile(ctx context.Context, session *models.SessionClaims) (*models.Student, error) {
	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	student, err := s.repo.FindByRollNumber(ctx, session.RollNumber)
	if err != nil {
		if isNoRows(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		s.logger.Error("student profile lookup failed", zap.String("roll_number", session.RollNumber), zap.Error(err))
		return nil, storeUnavailable(err, "failed to load student profile")
	}
	return student, nil
}
