package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ratingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository создает новый репозиторий чтения оценок
func NewRatingRepository(db *pgxpool.Pool) RatingRepository {
	return &ratingRepository{db: db}
}

const reviewRowColumns = `
	rt.id, rt.review_link_id, rt.rating, rt.redirected_to_google,
	rt.customer_name, rt.customer_email, rt.created_at,
	l.name, l.user_id
`

// ListByOwnerSince получает оценки владельца начиная с указанного момента
// (включительно), от новых к старым. Граница окна сравнивается по created_at.
func (r *ratingRepository) ListByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]entity.ReviewRow, error) {
	query := `
		SELECT ` + reviewRowColumns + `
		FROM ratings rt
		JOIN review_links l ON l.id = rt.review_link_id
		WHERE l.user_id = $1 AND rt.created_at >= $2
		ORDER BY rt.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

// ListAllSince получает оценки всех пользователей (админский экспорт)
func (r *ratingRepository) ListAllSince(ctx context.Context, since time.Time) ([]entity.ReviewRow, error) {
	query := `
		SELECT ` + reviewRowColumns + `
		FROM ratings rt
		JOIN review_links l ON l.id = rt.review_link_id
		WHERE rt.created_at >= $1
		ORDER BY rt.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list all ratings: %w", err)
	}
	defer rows.Close()

	return scanReviewRows(rows)
}

// CountByLinkID считает оценки ссылки напрямую в PostgreSQL.
// Используется как fallback, когда счетчик в Redis недоступен.
func (r *ratingRepository) CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM ratings WHERE review_link_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, linkID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	return count, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReviewRows(rows pgxRows) ([]entity.ReviewRow, error) {
	var result []entity.ReviewRow
	for rows.Next() {
		var row entity.ReviewRow
		var customerName, customerEmail sql.NullString

		if err := rows.Scan(
			&row.Rating.ID, &row.Rating.ReviewLinkID, &row.Rating.Rating, &row.Rating.RedirectedToGoogle,
			&customerName, &customerEmail, &row.Rating.CreatedAt,
			&row.LinkName, &row.OwnerID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}

		row.Rating.CustomerName = customerName.String
		row.Rating.CustomerEmail = customerEmail.String
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return result, nil
}
