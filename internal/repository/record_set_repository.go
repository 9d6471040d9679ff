package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// RecordSetRepository reads the record-set catalog.
type RecordSetRepository struct {
	db *sqlx.DB
}

// NewRecordSetRepository constructs a RecordSetRepository.
func NewRecordSetRepository(db *sqlx.DB) *RecordSetRepository {
	return &RecordSetRepository{db: db}
}

// ListByCohort returns the record sets registered for exactly the given cohort.
func (r *RecordSetRepository) ListByCohort(ctx context.Context, cohort models.Cohort) ([]models.RecordSet, error) {
	const query = `SELECT name, batch, branch, semester FROM record_sets
        WHERE batch = $1 AND branch = $2 AND semester = $3
        ORDER BY name`
	var sets []models.RecordSet
	if err := r.db.SelectContext(ctx, &sets, query, cohort.Batch, cohort.Branch, cohort.Semester); err != nil {
		return nil, fmt.Errorf("list record sets by cohort: %w", err)
	}
	return sets, nil
}
