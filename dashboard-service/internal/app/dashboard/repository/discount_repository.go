package repository

import (
	"context"
	"errors"
	"fmt"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type discountRepository struct {
	db *pgxpool.Pool
}

// NewDiscountRepository создает новый репозиторий промокодов
func NewDiscountRepository(db *pgxpool.Pool) DiscountRepository {
	return &discountRepository{db: db}
}

// Create создает новый промокод
func (r *discountRepository) Create(ctx context.Context, code *entity.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, user_id, code, message, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID, code.UserID, code.Code, code.Message, code.IsActive, code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount code: %w", err)
	}

	return nil
}

// GetByID получает промокод по ID
func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountCode, error) {
	query := `
		SELECT id, user_id, code, message, is_active, created_at
		FROM discount_codes WHERE id = $1
	`

	var c entity.DiscountCode
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Code, &c.Message, &c.IsActive, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}

	return &c, nil
}

// ListByUser получает промокоды пользователя от новых к старым
func (r *discountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.DiscountCode, error) {
	query := `
		SELECT id, user_id, code, message, is_active, created_at
		FROM discount_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	defer rows.Close()

	var codes []entity.DiscountCode
	for rows.Next() {
		var c entity.DiscountCode
		if err := rows.Scan(&c.ID, &c.UserID, &c.Code, &c.Message, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		codes = append(codes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount codes: %w", err)
	}

	return codes, nil
}

// Update обновляет промокод владельца
func (r *discountRepository) Update(ctx context.Context, code *entity.DiscountCode) error {
	query := `
		UPDATE discount_codes
		SET code = $1, message = $2, is_active = $3
		WHERE id = $4 AND user_id = $5
	`

	result, err := r.db.Exec(ctx, query, code.Code, code.Message, code.IsActive, code.ID, code.UserID)
	if err != nil {
		return fmt.Errorf("failed to update discount code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiscountNotFound
	}

	return nil
}

// Delete удаляет промокод владельца
func (r *discountRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM discount_codes WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete discount code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDiscountNotFound
	}

	return nil
}
