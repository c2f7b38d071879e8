package repository

import (
	"context"
	"errors"
	"fmt"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type linkRepository struct {
	db *pgxpool.Pool // Пул соединений с PostgreSQL
}

// NewLinkRepository создает новый репозиторий ссылок
func NewLinkRepository(db *pgxpool.Pool) LinkRepository {
	return &linkRepository{db: db}
}

// Create создает новую ссылку
// Уникальность link_code обеспечивается UNIQUE constraint
func (r *linkRepository) Create(ctx context.Context, link *entity.ReviewLink) error {
	query := `
		INSERT INTO review_links (id, link_code, user_id, name, google_review_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		link.ID, link.LinkCode, link.UserID, link.Name, link.GoogleReviewURL, link.Status, link.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrLinkCodeTaken
		}
		return fmt.Errorf("failed to create review link: %w", err)
	}

	return nil
}

// GetByID получает ссылку по ID
func (r *linkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReviewLink, error) {
	query := `
		SELECT id, link_code, user_id, name, google_review_url, status, created_at
		FROM review_links WHERE id = $1
	`

	var link entity.ReviewLink
	err := r.db.QueryRow(ctx, query, id).Scan(
		&link.ID, &link.LinkCode, &link.UserID, &link.Name, &link.GoogleReviewURL, &link.Status, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get review link by id: %w", err)
	}

	return &link, nil
}

// ListByUser получает ссылки пользователя вместе с числом оценок,
// отсортированные от новых к старым
func (r *linkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]LinkWithCount, error) {
	query := `
		SELECT l.id, l.link_code, l.user_id, l.name, l.google_review_url, l.status, l.created_at,
		       COUNT(rt.id) AS rating_count
		FROM review_links l
		LEFT JOIN ratings rt ON rt.review_link_id = l.id
		WHERE l.user_id = $1
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review links: %w", err)
	}
	defer rows.Close()

	var links []LinkWithCount
	for rows.Next() {
		var l LinkWithCount
		if err := rows.Scan(
			&l.ID, &l.LinkCode, &l.UserID, &l.Name, &l.GoogleReviewURL, &l.Status, &l.CreatedAt,
			&l.RatingCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review links: %w", err)
	}

	return links, nil
}

// Update обновляет имя, целевой URL и статус ссылки.
// Запрос ограничен владельцем: чужую ссылку обновить нельзя.
func (r *linkRepository) Update(ctx context.Context, link *entity.ReviewLink) error {
	query := `
		UPDATE review_links
		SET name = $1, google_review_url = $2, status = $3
		WHERE id = $4 AND user_id = $5
	`

	result, err := r.db.Exec(ctx, query, link.Name, link.GoogleReviewURL, link.Status, link.ID, link.UserID)
	if err != nil {
		return fmt.Errorf("failed to update review link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// Delete удаляет ссылку владельца вместе с оценками (ON DELETE CASCADE)
func (r *linkRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM review_links WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}
