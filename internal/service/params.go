package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// Ограничения пагинации
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Сколько дней покрывает окно по умолчанию
const DefaultWindowDays = 30

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate разбирает ISO-8601 дату или таймстемп. Дата без времени
// для конца окна нормализуется к концу дня (23:59:59.999999),
// чтобы однодневный фильтр был включающим. Naive-время трактуем как UTC.
func ParseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationf(fmt.Sprintf("invalid date format: %q, expected YYYY-MM-DD or ISO timestamp", value))
}

// ParseWindow строит окно выборки из start_date/end_date.
// Пустые параметры дают окно за последние DefaultWindowDays дней.
func ParseWindow(startStr, endStr string) (models.Window, error) {
	now := time.Now().UTC()
	w := models.Window{Start: now.AddDate(0, 0, -DefaultWindowDays), End: now}
	if startStr != "" {
		start, err := ParseDate(startStr, false)
		if err != nil {
			return models.Window{}, err
		}
		w.Start = start
	}
	if endStr != "" {
		end, err := ParseDate(endStr, true)
		if err != nil {
			return models.Window{}, err
		}
		w.End = end
	}
	return w, nil
}

// ListParams - сырые query-параметры списка постов
type ListParams struct {
	Search    string
	StartDate string
	EndDate   string
	MediaType string
	Sentiment string
	SortBy    string
	SortOrder string
	Page      string
	PerPage   string
}

// buildFilter валидирует параметры и собирает фильтр.
// Неизвестный sort_by молча заменяется дефолтом, неверный sort_order - ошибка.
func buildFilter(p ListParams) (models.PostFilter, error) {
	f := models.PostFilter{
		Search:    strings.TrimSpace(p.Search),
		MediaType: p.MediaType,
		Sentiment: p.Sentiment,
		SortBy:    p.SortBy,
		SortOrder: "desc",
		Page:      1,
		PerPage:   DefaultPerPage,
	}

	if p.SortOrder != "" {
		order := strings.ToLower(p.SortOrder)
		if order != "asc" && order != "desc" {
			return f, validationf(fmt.Sprintf("invalid sort_order: %q, expected asc or desc", p.SortOrder))
		}
		f.SortOrder = order
	}
	if _, ok := models.SortColumns[f.SortBy]; !ok {
		f.SortBy = "timestamp"
	}

	if p.Page != "" {
		page, err := strconv.Atoi(p.Page)
		if err != nil || page < 1 {
			return f, validationf(fmt.Sprintf("invalid page: %q, must be an integer >= 1", p.Page))
		}
		f.Page = page
	}
	if p.PerPage != "" {
		perPage, err := strconv.Atoi(p.PerPage)
		if err != nil || perPage < 1 || perPage > MaxPerPage {
			return f, validationf(fmt.Sprintf("invalid per_page: %q, must be 1..%d", p.PerPage, MaxPerPage))
		}
		f.PerPage = perPage
	}

	if p.StartDate != "" {
		start, err := ParseDate(p.StartDate, false)
		if err != nil {
			return f, err
		}
		f.StartDate = &start
	}
	if p.EndDate != "" {
		end, err := ParseDate(p.EndDate, true)
		if err != nil {
			return f, err
		}
		f.EndDate = &end
	}
	return f, nil
}

// TotalPages считает количество страниц; 0 при нулевом total
func TotalPages(total, perPage int) int {
	if total == 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
