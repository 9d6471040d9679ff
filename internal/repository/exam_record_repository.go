package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// ExamRecordRepository reads exam records within a record set.
type ExamRecordRepository struct {
	db *sqlx.DB
}

// NewExamRecordRepository constructs an ExamRecordRepository.
func NewExamRecordRepository(db *sqlx.DB) *ExamRecordRepository {
	return &ExamRecordRepository{db: db}
}

// FindForStudent returns the records of one student in one record set, ordered
// by date and time. An empty slice is not an error.
func (r *ExamRecordRepository) FindForStudent(ctx context.Context, recordSet, rollNumber string) ([]models.ExamRecord, error) {
	const query = `SELECT id, record_set, hall_ticket_number, exam_date, exam_time, subject, subject_code,
        subject_credits, subject_type, batch, branch, semester, face_status, qr_status, thumb_status,
        final_status, booklet_number, room_number
        FROM exam_records
        WHERE record_set = $1 AND hall_ticket_number = $2
        ORDER BY exam_date, exam_time, subject`
	records := make([]models.ExamRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, recordSet, rollNumber); err != nil {
		return nil, fmt.Errorf("find exam records: %w", err)
	}
	return records, nil
}
