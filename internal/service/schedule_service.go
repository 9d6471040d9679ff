package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/examstatus"
	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

// Messages shown when a view has nothing to display.
const (
	MsgNoSchedule = "No schedule found for this student."
	MsgNoStatus   = "No status found for this student."
	MsgNoRooms    = "No room details found for this student."
)

type examRecordRepository interface {
	FindForStudent(ctx context.Context, recordSet, rollNumber string) ([]models.ExamRecord, error)
}

type recordSetGuard interface {
	Require(ctx context.Context, session *models.SessionClaims, name string) (models.RecordSet, error)
}

// ScheduleService serves the schedule, status and room views of a record set.
type ScheduleService struct {
	catalog  recordSetGuard
	records  examRecordRepository
	metrics  *MetricsService
	logger   *zap.Logger
	timeout  time.Duration
	location *time.Location
	now      func() time.Time
}

// NewScheduleService constructs a ScheduleService. "Today" is taken in loc.
func NewScheduleService(catalog recordSetGuard, records examRecordRepository, metrics *MetricsService, logger *zap.Logger, timeout time.Duration, loc *time.Location) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{
		catalog:  catalog,
		records:  records,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
		location: loc,
		now:      time.Now,
	}
}

// Schedule lists the student's exam sittings in the record set.
func (s *ScheduleService) Schedule(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.ScheduleRow, error) {
	records, err := s.lookup(ctx, "schedule", session, recordSet)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.ScheduleRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dto.ScheduleRow{
			Date:        r.Date,
			Time:        r.Time,
			Subject:     r.Subject,
			SubjectCode: r.SubjectCode,
			Credits:     r.Credits,
			SubjectType: r.SubjectType,
			Batch:       r.Batch,
			Branch:      r.Branch,
			Semester:    r.Semester,
		})
	}
	return finishView(s.metrics, "schedule", rows, MsgNoSchedule)
}

// Status lists the verification status of every sitting in the record set.
func (s *ScheduleService) Status(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.StatusRow, error) {
	records, err := s.lookup(ctx, "status", session, recordSet)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.StatusRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dto.StatusRow{
			Date:          r.Date,
			Subject:       r.Subject,
			SubjectCode:   r.SubjectCode,
			FaceStatus:    models.OrNA(r.FaceStatus),
			QRStatus:      models.OrNA(r.QRStatus),
			ThumbStatus:   models.OrNA(r.ThumbStatus),
			FinalStatus:   models.OrNA(r.FinalStatus),
			BookletNumber: models.OrNA(r.BookletNumber),
		})
	}
	return finishView(s.metrics, "status", rows, MsgNoStatus)
}

// Rooms resolves what may be shown about each sitting today. subject, when
// set, restricts the rows to that subject name or code. A record with a
// malformed date yields a row carrying an error; other rows are unaffected.
func (s *ScheduleService) Rooms(ctx context.Context, session *models.SessionClaims, recordSet, subject string) ([]dto.RoomRow, error) {
	records, err := s.lookup(ctx, "rooms", session, recordSet)
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.location)
	subject = strings.TrimSpace(subject)

	rows := make([]dto.RoomRow, 0, len(records))
	for _, r := range records {
		if subject != "" && !strings.EqualFold(r.Subject, subject) && !strings.EqualFold(r.SubjectCode, subject) {
			continue
		}
		row := dto.RoomRow{Date: r.Date, Time: r.Time, Subject: r.Subject}
		state, err := examstatus.ResolveRecord(r, today)
		if err != nil {
			s.logger.Warn("exam record has an invalid date",
				zap.String("record_set", recordSet),
				zap.String("record_id", r.ID),
				zap.String("date", r.Date),
			)
			s.metrics.RecordLookup("rooms", OutcomeInvalidDate)
			row.Error = &dto.RowError{
				Code:    appErrors.ErrInvalidDateFormat.Code,
				Message: appErrors.ErrInvalidDateFormat.Message,
			}
		} else {
			s.metrics.RecordRoomState(state.State)
			row.State = &state
		}
		rows = append(rows, row)
	}
	return finishView(s.metrics, "rooms", rows, MsgNoRooms)
}

func (s *ScheduleService) lookup(ctx context.Context, view string, session *models.SessionClaims, recordSet string) ([]models.ExamRecord, error) {
	if _, err := s.catalog.Require(ctx, session, recordSet); err != nil {
		if appErrors.IsRecoverable(err) {
			s.metrics.RecordLookup(view, OutcomeNotFound)
		} else {
			s.metrics.RecordLookup(view, OutcomeStoreError)
		}
		return nil, err
	}

	lookupCtx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	records, err := s.records.FindForStudent(lookupCtx, recordSet, session.RollNumber)
	s.metrics.ObserveStoreQuery("exam_records", time.Since(start))
	if err != nil {
		if isNoRows(err) {
			return []models.ExamRecord{}, nil
		}
		s.metrics.RecordLookup(view, OutcomeStoreError)
		s.logger.Error("exam record lookup failed",
			zap.String("view", view),
			zap.String("record_set", recordSet),
			zap.Error(err),
		)
		return nil, storeUnavailable(err, "failed to load exam records")
	}
	return records, nil
}

// finishView reports an empty view as EMPTY_RESULT alongside an empty slice.
func finishView[T any](metrics *MetricsService, view string, rows []T, message string) ([]T, error) {
	if len(rows) == 0 {
		metrics.RecordLookup(view, OutcomeEmpty)
		return rows, appErrors.Clone(appErrors.ErrEmptyResult, message)
	}
	metrics.RecordLookup(view, OutcomeOK)
	return rows, nil
}
