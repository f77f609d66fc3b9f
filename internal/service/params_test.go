package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_DateOnly(t *testing.T) {
	got, err := ParseDate("2024-01-15", false)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_DateOnlyEndOfDay(t *testing.T) {
	got, err := ParseDate("2024-01-15", true)

	// Конец окна растягивается до конца дня, фильтр включающий
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999999000, time.UTC), got)
}

func TestParseDate_NaiveTimestampIsUTC(t *testing.T) {
	got, err := ParseDate("2024-01-15T10:30:00", false)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestParseDate_WithOffset(t *testing.T) {
	got, err := ParseDate("2024-01-15T10:30:00+03:00", false)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC), got)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15/01/2024", false)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestParseWindow_Defaults(t *testing.T) {
	w, err := ParseWindow("", "")

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), w.End, time.Minute)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -DefaultWindowDays), w.Start, time.Minute)
}

func TestParseWindow_SingleDayInclusive(t *testing.T) {
	w, err := ParseWindow("2024-01-15", "2024-01-15")

	require.NoError(t, err)
	assert.True(t, w.Start.Before(w.End))
	assert.Equal(t, 15, w.End.Day())
	assert.Equal(t, 23, w.End.Hour())
}

func TestBuildFilter_Defaults(t *testing.T) {
	f, err := buildFilter(ListParams{})

	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.PerPage)
	assert.Equal(t, "timestamp", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
}

func TestBuildFilter_UnknownSortByFallsBack(t *testing.T) {
	f, err := buildFilter(ListParams{SortBy: "shoe_size"})

	// Неизвестный sort_by - не ошибка, откат на timestamp
	require.NoError(t, err)
	assert.Equal(t, "timestamp", f.SortBy)
}

func TestBuildFilter_InvalidSortOrder(t *testing.T) {
	_, err := buildFilter(ListParams{SortOrder: "sideways"})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestBuildFilter_PageValidation(t *testing.T) {
	_, err := buildFilter(ListParams{Page: "0"})
	assert.Error(t, err)

	_, err = buildFilter(ListParams{Page: "abc"})
	assert.Error(t, err)

	f, err := buildFilter(ListParams{Page: "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.Page)
}

func TestBuildFilter_PerPageValidation(t *testing.T) {
	_, err := buildFilter(ListParams{PerPage: "0"})
	assert.Error(t, err)

	_, err = buildFilter(ListParams{PerPage: "101"})
	assert.Error(t, err)

	f, err := buildFilter(ListParams{PerPage: "100"})
	require.NoError(t, err)
	assert.Equal(t, 100, f.PerPage)
}

func TestBuildFilter_TrimsSearch(t *testing.T) {
	f, err := buildFilter(ListParams{Search: "  coffee  "})

	require.NoError(t, err)
	assert.Equal(t, "coffee", f.Search)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 5, TotalPages(100, 20))
}
