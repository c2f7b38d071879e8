package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"revulink/dashboard-service/internal/app/dashboard/entity"
)

// Analytics возвращает агрегаты по оценкам пользователя за окно.
// Окна: 7d, 30d, 90d, 1y. Для любого окна считаются сразу три ряда:
// дневной, недельный (привязка к воскресенью) и месячный.
func (s *DashboardService) Analytics(ctx context.Context, scope entity.Scope, rangeStr string) (*entity.AnalyticsData, error) {
	rangeStr = normalizeRange(rangeStr)

	since, err := WindowStart(time.Now(), rangeStr)
	if err != nil {
		return nil, err
	}

	rows, err := s.ratingRepo.ListByOwnerSince(ctx, scope.EffectiveUserID(), since)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings for analytics: %w", err)
	}

	ratings := make([]entity.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, row.Rating)
	}

	return aggregateRatings(ratings, rangeStr), nil
}

// WindowStart возвращает нижнюю границу окна аналитики (включительно)
func WindowStart(now time.Time, rangeStr string) (time.Time, error) {
	switch rangeStr {
	case "7d":
		return now.AddDate(0, 0, -7), nil
	case "30d":
		return now.AddDate(0, 0, -30), nil
	case "90d":
		return now.AddDate(0, 0, -90), nil
	case "1y":
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidRange
	}
}

// bucketKey возвращает ключ временной корзины для точки ряда.
// Недельные корзины привязаны к воскресенью своей недели.
func bucketKey(t time.Time, granularity string) string {
	switch granularity {
	case "week":
		sunday := t.AddDate(0, 0, -int(t.Weekday()))
		return sunday.Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

type ratingBucket struct {
	sum   int
	count int
}

func addToBucket(buckets map[string]*ratingBucket, key string, rating int) {
	b, ok := buckets[key]
	if !ok {
		b = &ratingBucket{}
		buckets[key] = b
	}
	b.sum += rating
	b.count++
}

// seriesFrom превращает корзины в ряд, отсортированный по возрастанию периода.
func seriesFrom(buckets map[string]*ratingBucket) []entity.SeriesPoint {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]entity.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, entity.SeriesPoint{
			Period: k,
			Mean:   float64(b.sum) / float64(b.count),
			Count:  b.count,
		})
	}
	return series
}

// aggregateRatings считает агрегаты по набору оценок за один проход.
// Гистограмма всегда содержит пять корзин, средняя по пустому
// набору равна нулю, каждый ряд отсортирован по возрастанию периода.
func aggregateRatings(ratings []entity.Rating, rangeStr string) *entity.AnalyticsData {
	histogram := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}

	daily := make(map[string]*ratingBucket)
	weekly := make(map[string]*ratingBucket)
	monthly := make(map[string]*ratingBucket)

	sum := 0
	redirects := 0
	for _, r := range ratings {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			histogram[r.Rating]++
		}
		if r.RedirectedToGoogle {
			redirects++
		}

		addToBucket(daily, bucketKey(r.CreatedAt, "day"), r.Rating)
		addToBucket(weekly, bucketKey(r.CreatedAt, "week"), r.Rating)
		addToBucket(monthly, bucketKey(r.CreatedAt, "month"), r.Rating)
	}

	mean := 0.0
	if len(ratings) > 0 {
		mean = float64(sum) / float64(len(ratings))
	}

	return &entity.AnalyticsData{
		Range:           rangeStr,
		TotalRatings:    len(ratings),
		MeanRating:      mean,
		GoogleRedirects: redirects,
		Histogram:       histogram,
		Daily:           seriesFrom(daily),
		Weekly:          seriesFrom(weekly),
		Monthly:         seriesFrom(monthly),
	}
}
