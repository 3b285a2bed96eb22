package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-complaints/internal/models"
)

// ComplaintRepository persists complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository creates a new instance of ComplaintRepository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create stores a pending complaint under an id taken from the identity column.
func (r *ComplaintRepository) Create(ctx context.Context, record *models.ComplaintRecord) error {
	const query = `INSERT INTO complaints (student_id, student_name, category, description, status, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	var id int
	if err := r.db.QueryRowxContext(ctx, query,
		record.StudentID,
		record.StudentName,
		record.Category,
		record.Description,
		record.Status,
		record.SubmittedAt,
	).Scan(&id); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	record.ID = id
	return nil
}

// List returns every complaint ordered by id.
func (r *ComplaintRepository) List(ctx context.Context) ([]models.ComplaintRecord, error) {
	const query = `SELECT id, student_id, student_name, category, description, status, submitted_at, resolved_at FROM complaints ORDER BY id`
	records := []models.ComplaintRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return records, nil
}

// Resolve marks a pending complaint resolved. It reports whether a row changed;
// unknown and already resolved ids are left untouched.
func (r *ComplaintRepository) Resolve(ctx context.Context, id int, at time.Time) (bool, error) {
	const query = `UPDATE complaints SET status = $2, resolved_at = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.ComplaintResolved, at, models.ComplaintPending)
	if err != nil {
		return false, fmt.Errorf("resolve complaint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve complaint rows: %w", err)
	}
	return n > 0, nil
}
