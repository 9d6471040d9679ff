package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// StudentRepository reads the student directory.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByRollNumber fetches a profile by exact roll number. It returns
// sql.ErrNoRows when the roll number is unknown.
func (r *StudentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	const query = `SELECT roll_number, full_name, batch, branch, semester, email, phone
        FROM students WHERE roll_number = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, rollNumber); err != nil {
		return nil, err
	}
	return &student, nil
}
