package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

type authStudentRepository interface {
	FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
}

// AuthConfig defines configuration for session issuance.
type AuthConfig struct {
	Secret       string
	Expiry       time.Duration
	Issuer       string
	StoreTimeout time.Duration
}

// AuthService identifies students and issues signed sessions.
type AuthService struct {
	repo      authStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	metrics   *MetricsService
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authStudentRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 2 * time.Hour
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, now: time.Now}
}

// WithMetrics attaches a metrics sink for rejected logins.
func (s *AuthService) WithMetrics(metrics *MetricsService) *AuthService {
	s.metrics = metrics
	return s
}

// Login matches the roll number exactly against the directory and returns a
// session token scoped to the student's cohort.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "roll number is required")
	}

	lookupCtx, cancel := withStoreTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	student, err := s.repo.FindByRollNumber(lookupCtx, req.RollNumber)
	if err != nil {
		if isNoRows(err) {
			s.logger.Info("login rejected", zap.String("roll_number", req.RollNumber), zap.String("ip", req.IP))
			s.metrics.RecordRejectedLogin()
			return nil, appErrors.ErrInvalidRollNumber
		}
		s.logger.Error("student lookup failed", zap.Error(err))
		return nil, storeUnavailable(err, "failed to look up student")
	}

	token, err := s.generateAccessToken(student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	s.logger.Info("login succeeded",
		zap.String("roll_number", student.RollNumber),
		zap.String("ip", req.IP),
		zap.String("user_agent", req.UserAgent),
	)

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.Expiry.Seconds()),
		Student:     *student,
	}, nil
}

// ValidateToken parses and validates a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	if !token.Valid || claims.RollNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(student *models.Student) (string, error) {
	now := s.now().UTC()
	claims := models.SessionClaims{
		RollNumber: student.RollNumber,
		Batch:      student.Batch,
		Branch:     student.Branch,
		Semester:   student.Semester,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   student.RollNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
