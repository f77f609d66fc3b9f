package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

	assert.Equal(t, "posts_export_20240115_103045.csv", ExportFilename(now))
}

func TestExportCSV_Empty(t *testing.T) {
	s := NewAnalyticsService(storage.NewMemoryStorage())
	var buf bytes.Buffer

	err := s.ExportCSV(&buf, ListParams{})

	// Пустая выборка - CSV из одного заголовка
	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeader, rows[0])
}

func TestExportCSV_Rows(t *testing.T) {
	mem := storage.NewMemoryStorage()
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	id, err := mem.UpsertPost(&models.Post{
		PostID: "p1", Platform: "instagram", Author: "alice",
		Content: "hello, \"world\"", Timestamp: ts,
		Likes: 12, CommentsCount: 3, Shares: 1,
		URL: "https://example.com/p1", MediaType: "reel",
	})
	require.NoError(t, err)
	require.NoError(t, mem.AddSentiment(&models.Sentiment{PostID: id, Score: 0.5, Label: "positive"}))
	_, err = mem.UpsertPost(&models.Post{
		PostID: "p2", Platform: "instagram", Author: "bob",
		Content: "plain", Timestamp: ts.Add(time.Hour), MediaType: "post",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = NewAnalyticsService(mem).ExportCSV(&buf, ListParams{SortOrder: "asc"})

	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "p1", first[0])
	assert.Equal(t, "hello, \"world\"", first[3])
	assert.Equal(t, "2024-01-15T10:00:00Z", first[4])
	assert.Equal(t, "12", first[5])
	assert.Equal(t, "0.5", first[10])
	assert.Equal(t, "positive", first[11])

	// Пост без оценки - пустые ячейки тональности
	second := rows[2]
	assert.Equal(t, "p2", second[0])
	assert.Equal(t, "", second[10])
	assert.Equal(t, "", second[11])
}

func TestExportCSV_IgnoresPagination(t *testing.T) {
	mem := storage.NewMemoryStorage()
	ts := time.Now().UTC()
	for i := 0; i < 25; i++ {
		_, err := mem.UpsertPost(&models.Post{
			PostID: string(rune('a' + i)), Platform: "instagram", Author: "alice",
			Content: "post", Timestamp: ts.Add(time.Duration(i) * time.Minute), MediaType: "post",
		})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	err := NewAnalyticsService(mem).ExportCSV(&buf, ListParams{Page: "2", PerPage: "5"})

	// Выгрузка всегда полная, пагинация запроса игнорируется
	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 26)
}

func TestExportImportRoundTrip(t *testing.T) {
	source := storage.NewMemoryStorage()
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	id, err := source.UpsertPost(&models.Post{
		PostID: "p1", Platform: "tiktok", Author: "alice",
		Content: "round trip", Timestamp: ts,
		Likes: 7, CommentsCount: 2, Shares: 1,
		URL: "https://example.com/p1", MediaType: "video",
	})
	require.NoError(t, err)
	require.NoError(t, source.AddSentiment(&models.Sentiment{PostID: id, Score: -0.3, Label: "negative"}))

	var buf bytes.Buffer
	require.NoError(t, NewAnalyticsService(source).ExportCSV(&buf, ListParams{}))

	target := storage.NewMemoryStorage()
	result, err := NewImportService(target).ImportFile("export.csv", buf.Bytes(), "instagram", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)

	post, err := target.GetPostByPostID("p1")
	require.NoError(t, err)
	assert.Equal(t, "tiktok", post.Platform)
	assert.Equal(t, "round trip", post.Content)
	assert.Equal(t, ts, post.Timestamp.UTC())
	assert.Equal(t, 7, post.Likes)
	assert.Equal(t, "video", post.MediaType)
	assert.Equal(t, "https://example.com/p1", post.URL)

	posts, _, err := target.ListPosts(models.PostFilter{Sentiment: "negative", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, -0.3, *posts[0].SentimentScore)
}
