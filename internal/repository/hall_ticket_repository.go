package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// HallTicketRepository reads issued hall tickets.
type HallTicketRepository struct {
	db *sqlx.DB
}

// NewHallTicketRepository constructs a HallTicketRepository.
func NewHallTicketRepository(db *sqlx.DB) *HallTicketRepository {
	return &HallTicketRepository{db: db}
}

// ListCollections returns the names of all hall ticket collections.
func (r *HallTicketRepository) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM hall_ticket_collections ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list hall ticket collections: %w", err)
	}
	return names, nil
}

// Find returns the stored hall ticket of a student in a collection. It returns
// sql.ErrNoRows when none was issued.
func (r *HallTicketRepository) Find(ctx context.Context, collection, rollNumber string) (*models.HallTicket, error) {
	const query = `SELECT collection, roll_number, payload FROM hall_tickets
        WHERE collection = $1 AND roll_number = $2`
	var ticket models.HallTicket
	if err := r.db.GetContext(ctx, &ticket, query, collection, rollNumber); err != nil {
		return nil, err
	}
	return &ticket, nil
}
