package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/pkg/metrics"

	"github.com/google/uuid"
)

// ListReviews возвращает отзывы пользователя за окно с фильтрами.
// Оценки читаются из PostgreSQL, тексты приватных отзывов
// дочитываются из MongoDB одним запросом.
func (s *DashboardService) ListReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.ReviewListResponse, error) {
	since, err := WindowStart(time.Now(), normalizeRange(query.Range))
	if err != nil {
		return nil, err
	}

	rows, err := s.ratingRepo.ListByOwnerSince(ctx, scope.EffectiveUserID(), since)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	if err := s.attachFeedback(ctx, rows); err != nil {
		return nil, err
	}

	rows = filterReviews(rows, query.Filter, query.Search)
	sortReviews(rows, query.Sort)

	return &entity.ReviewListResponse{Reviews: rows, Total: len(rows)}, nil
}

// ExportReviewsCSV выгружает отзывы пользователя в CSV
func (s *DashboardService) ExportReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error) {
	resp, err := s.ListReviews(ctx, scope, query)
	if err != nil {
		return "", nil, err
	}

	data, err := writeReviewsCSV(resp.Reviews, nil)
	if err != nil {
		return "", nil, err
	}

	metrics.CsvExports.WithLabelValues("owner").Inc()

	filename := "reviews-" + time.Now().Format("2006-01-02") + ".csv"
	return filename, data, nil
}

// ListAllReviews возвращает отзывы всех пользователей с данными
// владельца каждой ссылки (только администратор)
func (s *DashboardService) ListAllReviews(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (*entity.AdminReviewListResponse, error) {
	rows, owners, err := s.listAllRows(ctx, scope, query)
	if err != nil {
		return nil, err
	}

	adminRows := make([]entity.AdminReviewRow, 0, len(rows))
	for _, row := range rows {
		owner := owners[row.OwnerID]
		adminRows = append(adminRows, entity.AdminReviewRow{
			ReviewRow:  row,
			OwnerName:  owner.FullName,
			OwnerEmail: owner.Email,
		})
	}

	return &entity.AdminReviewListResponse{Reviews: adminRows, Total: len(adminRows)}, nil
}

// ExportAllReviewsCSV выгружает отзывы всех пользователей с колонками
// владельца (только администратор)
func (s *DashboardService) ExportAllReviewsCSV(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) (string, []byte, error) {
	rows, owners, err := s.listAllRows(ctx, scope, query)
	if err != nil {
		return "", nil, err
	}

	data, err := writeReviewsCSV(rows, owners)
	if err != nil {
		return "", nil, err
	}

	metrics.CsvExports.WithLabelValues("admin").Inc()

	filename := "admin-reviews-" + time.Now().Format("2006-01-02") + ".csv"
	return filename, data, nil
}

func (s *DashboardService) listAllRows(ctx context.Context, scope entity.Scope, query entity.ReviewsQuery) ([]entity.ReviewRow, map[uuid.UUID]entity.Profile, error) {
	if !scope.IsAdmin {
		return nil, nil, ErrNotAdmin
	}

	since, err := WindowStart(time.Now(), normalizeRange(query.Range))
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.ratingRepo.ListAllSince(ctx, since)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list all reviews: %w", err)
	}

	if err := s.attachFeedback(ctx, rows); err != nil {
		return nil, nil, err
	}

	rows = filterReviews(rows, query.Filter, query.Search)
	sortReviews(rows, query.Sort)

	owners, err := s.ownerIndex(ctx)
	if err != nil {
		return nil, nil, err
	}

	return rows, owners, nil
}

func (s *DashboardService) attachFeedback(ctx context.Context, rows []entity.ReviewRow) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Rating.ID.String())
	}

	feedback, err := s.feedbackRepo.GetByRatingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load feedback: %w", err)
	}

	for i := range rows {
		rows[i].Feedback = feedback[rows[i].Rating.ID.String()]
	}

	return nil
}

func (s *DashboardService) ownerIndex(ctx context.Context) (map[uuid.UUID]entity.Profile, error) {
	users, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}

	index := make(map[uuid.UUID]entity.Profile, len(users))
	for _, u := range users {
		index[u.Profile.UserID] = u.Profile
	}
	return index, nil
}

// filterReviews применяет фильтр по оценке и поиск по подстроке.
// filter: all | high (>=4) | low (<=3) | точная оценка "1".."5"
func filterReviews(rows []entity.ReviewRow, filter, search string) []entity.ReviewRow {
	result := make([]entity.ReviewRow, 0, len(rows))

	needle := strings.ToLower(strings.TrimSpace(search))

	for _, row := range rows {
		if !matchesFilter(row.Rating.Rating, filter) {
			continue
		}
		if needle != "" && !matchesSearch(row, needle) {
			continue
		}
		result = append(result, row)
	}

	return result
}

func matchesFilter(rating int, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case "high":
		return rating >= 4
	case "low":
		return rating <= 3
	default:
		if exact, err := strconv.Atoi(filter); err == nil {
			return rating == exact
		}
		return true
	}
}

func matchesSearch(row entity.ReviewRow, needle string) bool {
	haystacks := []string{
		row.Rating.CustomerName,
		row.Rating.CustomerEmail,
		row.LinkName,
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// sortReviews сортирует отзывы: newest | oldest | highest | lowest
func sortReviews(rows []entity.ReviewRow, order string) {
	switch order {
	case "oldest":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Rating.CreatedAt.Before(rows[j].Rating.CreatedAt)
		})
	case "highest":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Rating.Rating > rows[j].Rating.Rating
		})
	case "lowest":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Rating.Rating < rows[j].Rating.Rating
		})
	default: // newest
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Rating.CreatedAt.After(rows[j].Rating.CreatedAt)
		})
	}
}

// writeReviewsCSV сериализует отзывы в CSV. Если owners != nil,
// добавляются админские колонки владельца ссылки.
func writeReviewsCSV(rows []entity.ReviewRow, owners map[uuid.UUID]entity.Profile) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Link Name"}
	if owners != nil {
		header = append(header, "Owner Name", "Owner Email")
	}
	header = append(header, "Customer Name", "Customer Email", "Rating", "Feedback", "Redirected to Google")

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Rating.CreatedAt.Format("2006-01-02"),
			row.LinkName,
		}

		if owners != nil {
			owner := owners[row.OwnerID]
			record = append(record, owner.FullName, owner.Email)
		}

		feedbackText := ""
		if row.Feedback != nil {
			feedbackText = row.Feedback.FeedbackText
		}

		redirected := "No"
		if row.Rating.RedirectedToGoogle {
			redirected = "Yes"
		}

		record = append(record,
			row.Rating.CustomerName,
			row.Rating.CustomerEmail,
			strconv.Itoa(row.Rating.Rating),
			feedbackText,
			redirected,
		)

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func normalizeRange(r string) string {
	if r == "" {
		return "30d"
	}
	return r
}
