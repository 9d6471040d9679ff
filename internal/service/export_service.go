package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/models"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
	"github.com/noah-isme/hallticket-portal/pkg/export"
)

// Export formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var scheduleHeaders = []string{"Date", "Time", "Subject", "Subject Code", "Credits", "Subject Type"}

type scheduleProvider interface {
	Schedule(ctx context.Context, session *models.SessionClaims, recordSet string) ([]dto.ScheduleRow, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, caption ...string) ([]byte, error)
}

// ExportFile is a rendered attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the schedule view as a downloadable document.
type ExportService struct {
	schedules scheduleProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// package exporters.
func NewExportService(schedules scheduleProvider, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

// ExportSchedule renders the student's schedule in recordSet as format.
func (s *ExportService) ExportSchedule(ctx context.Context, session *models.SessionClaims, recordSet, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	rows, err := s.schedules.Schedule(ctx, session, recordSet)
	if err != nil {
		return nil, err
	}
	dataset := scheduleDataset(rows)
	base := fmt.Sprintf("%s_%s_schedule", session.RollNumber, recordSet)

	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil
	default:
		caption := []string{
			"Roll number: " + session.RollNumber,
			fmt.Sprintf("Batch %s, %s, semester %s", session.Batch, session.Branch, session.Semester),
		}
		data, err := s.pdf.Render(dataset, "Exam schedule "+recordSet, caption...)
		if err != nil {
			s.logger.Error("schedule pdf rendering failed", zap.String("record_set", recordSet), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
}

func scheduleDataset(rows []dto.ScheduleRow) export.Dataset {
	dataset := export.Dataset{Headers: scheduleHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, r := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":         r.Date,
			"Time":         r.Time,
			"Subject":      r.Subject,
			"Subject Code": r.SubjectCode,
			"Credits":      strconv.Itoa(r.Credits),
			"Subject Type": r.SubjectType,
		})
	}
	return dataset
}
