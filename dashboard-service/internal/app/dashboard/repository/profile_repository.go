package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"revulink/dashboard-service/internal/app/dashboard/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID получает профиль по ID пользователя
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT user_id, email, full_name, business_name, google_review_link, logo_url,
		       is_admin, onboarding_completed, created_at
		FROM profiles WHERE user_id = $1
	`

	var p entity.Profile
	var fullName, businessName, googleReviewLink, logoURL sql.NullString

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Email, &fullName, &businessName, &googleReviewLink, &logoURL,
		&p.IsAdmin, &p.OnboardingCompleted, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.FullName = fullName.String
	p.BusinessName = businessName.String
	p.GoogleReviewLink = googleReviewLink.String
	p.LogoURL = logoURL.String

	return &p, nil
}

// Update обновляет редактируемые поля профиля
func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, business_name = $2, google_review_link = $3, logo_url = $4
		WHERE user_id = $5
	`

	result, err := r.db.Exec(ctx, query,
		profile.FullName, profile.BusinessName, profile.GoogleReviewLink, profile.LogoURL, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// SetOnboardingCompleted помечает онбординг завершенным
func (r *profileRepository) SetOnboardingCompleted(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE profiles SET onboarding_completed = TRUE WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to set onboarding completed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ListAll получает всех пользователей со счетчиками ссылок и оценок (для админки)
func (r *profileRepository) ListAll(ctx context.Context) ([]entity.AdminUserRow, error) {
	query := `
		SELECT p.user_id, p.email, p.full_name, p.business_name, p.google_review_link, p.logo_url,
		       p.is_admin, p.onboarding_completed, p.created_at,
		       COUNT(DISTINCT l.id)  AS link_count,
		       COUNT(rt.id)          AS rating_count
		FROM profiles p
		LEFT JOIN review_links l ON l.user_id = p.user_id
		LEFT JOIN ratings rt ON rt.review_link_id = l.id
		GROUP BY p.user_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var users []entity.AdminUserRow
	for rows.Next() {
		var u entity.AdminUserRow
		var fullName, businessName, googleReviewLink, logoURL sql.NullString

		if err := rows.Scan(
			&u.Profile.UserID, &u.Profile.Email, &fullName, &businessName, &googleReviewLink, &logoURL,
			&u.Profile.IsAdmin, &u.Profile.OnboardingCompleted, &u.Profile.CreatedAt,
			&u.LinkCount, &u.RatingCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}

		u.Profile.FullName = fullName.String
		u.Profile.BusinessName = businessName.String
		u.Profile.GoogleReviewLink = googleReviewLink.String
		u.Profile.LogoURL = logoURL.String
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return users, nil
}
