package storage

import (
	"testing"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(postID, author, content string, ts time.Time) *models.Post {
	return &models.Post{
		PostID:    postID,
		Platform:  "instagram",
		Author:    author,
		Content:   content,
		Timestamp: ts,
		MediaType: "post",
	}
}

func windowAround(ts time.Time) models.Window {
	return models.Window{Start: ts.AddDate(0, 0, -1), End: ts.AddDate(0, 0, 1)}
}

func TestUpsertPost_Insert(t *testing.T) {
	s := NewMemoryStorage()

	id, err := s.UpsertPost(newPost("p1", "alice", "hello", time.Now().UTC()))

	assert.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestUpsertPost_Idempotent(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()

	id1, err := s.UpsertPost(newPost("p1", "alice", "first version", ts))
	require.NoError(t, err)

	second := newPost("p1", "alice", "second version", ts)
	second.Likes = 42
	id2, err := s.UpsertPost(second)
	require.NoError(t, err)

	// Assert что строка одна и отражает повторный импорт
	assert.Equal(t, id1, id2)
	post, err := s.GetPostByPostID("p1")
	require.NoError(t, err)
	assert.Equal(t, "second version", post.Content)
	assert.Equal(t, 42, post.Likes)

	_, total, err := s.ListPosts(models.PostFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetPostByPostID_NotFound(t *testing.T) {
	s := NewMemoryStorage()

	post, err := s.GetPostByPostID("nonexistent")

	// Assert что пост не найден и возвращается ошибка
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, post)
}

func TestListPosts_SearchMatchesContentOrAuthor(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	_, err := s.UpsertPost(newPost("p1", "alice", "coffee time", ts))
	require.NoError(t, err)
	_, err = s.UpsertPost(newPost("p2", "Coffeelover", "morning run", ts))
	require.NoError(t, err)
	_, err = s.UpsertPost(newPost("p3", "bob", "evening news", ts))
	require.NoError(t, err)

	posts, total, err := s.ListPosts(models.PostFilter{Search: "COFFEE", Page: 1, PerPage: 10})

	// Поиск без учёта регистра по контенту и автору
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, posts, 2)
}

func TestListPosts_EndDateInclusive(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	_, err := s.UpsertPost(newPost("p1", "alice", "late post", ts))
	require.NoError(t, err)

	// Дата без времени нормализована сервисом к концу дня
	end := time.Date(2024, 1, 15, 23, 59, 59, 999999000, time.UTC)
	_, total, err := s.ListPosts(models.PostFilter{EndDate: &end, Page: 1, PerPage: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestListPosts_SortByLikes(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	for i, likes := range []int{5, 50, 20} {
		p := newPost(string(rune('a'+i)), "alice", "post", ts)
		p.Likes = likes
		_, err := s.UpsertPost(p)
		require.NoError(t, err)
	}

	posts, _, err := s.ListPosts(models.PostFilter{SortBy: "likes", SortOrder: "desc", Page: 1, PerPage: 10})

	require.NoError(t, err)
	assert.Equal(t, []int{50, 20, 5}, []int{posts[0].Likes, posts[1].Likes, posts[2].Likes})
}

func TestListPosts_SortBySentimentNullsLast(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	id1, err := s.UpsertPost(newPost("p1", "alice", "scored", ts))
	require.NoError(t, err)
	_, err = s.UpsertPost(newPost("p2", "bob", "unscored", ts))
	require.NoError(t, err)
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id1, Score: 0.4, Label: "positive"}))

	posts, _, err := s.ListPosts(models.PostFilter{SortBy: "sentiment", SortOrder: "desc", Page: 1, PerPage: 10})

	// Посты без оценки всегда в конце
	require.NoError(t, err)
	assert.Equal(t, "p1", posts[0].PostID)
	assert.Nil(t, posts[1].SentimentScore)
}

func TestListPosts_Pagination(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, err := s.UpsertPost(newPost(string(rune('a'+i)), "alice", "post", ts.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	posts, total, err := s.ListPosts(models.PostFilter{Page: 2, PerPage: 2, SortOrder: "desc"})

	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, posts, 2)

	// Страница за пределами выборки - пустая, не ошибка
	posts, total, err = s.ListPosts(models.PostFilter{Page: 10, PerPage: 2})
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, posts)
}

func TestListPosts_FilterBySentimentLabel(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	id1, err := s.UpsertPost(newPost("p1", "alice", "good", ts))
	require.NoError(t, err)
	_, err = s.UpsertPost(newPost("p2", "bob", "meh", ts))
	require.NoError(t, err)
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id1, Score: 0.7, Label: "positive"}))

	_, total, err := s.ListPosts(models.PostFilter{Sentiment: "positive", Page: 1, PerPage: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetCommentsForPost_UnknownPost(t *testing.T) {
	s := NewMemoryStorage()

	comments, err := s.GetCommentsForPost("nonexistent")

	// Неизвестный пост - пустой список, не ошибка
	assert.NoError(t, err)
	assert.Empty(t, comments)
	assert.NotNil(t, comments)
}

func TestAddComment_NoPost(t *testing.T) {
	s := NewMemoryStorage()

	err := s.AddComment(&models.Comment{PostID: 99, Author: "bob", Content: "hi", Timestamp: time.Now()})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearAll_ResetsIdentity(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	id, err := s.UpsertPost(newPost("p1", "alice", "post", ts))
	require.NoError(t, err)
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id, Score: 0.5, Label: "positive"}))
	require.NoError(t, s.AddComment(&models.Comment{PostID: id, Author: "bob", Content: "hi", Timestamp: ts}))

	counts, err := s.ClearAll()

	require.NoError(t, err)
	assert.Equal(t, 1, counts["posts"])
	assert.Equal(t, 1, counts["sentiments"])
	assert.Equal(t, 1, counts["comments"])
	assert.Equal(t, 0, counts["execution_logs"])

	// Счётчик id сброшен: следующая вставка снова получает id=1
	newID, err := s.UpsertPost(newPost("p2", "bob", "fresh", ts))
	require.NoError(t, err)
	assert.Equal(t, int64(1), newID)
}

func TestSummaryStats(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()

	p1 := newPost("p1", "alice", "first", ts)
	p1.Likes, p1.CommentsCount, p1.Shares = 10, 4, 2
	id1, err := s.UpsertPost(p1)
	require.NoError(t, err)

	p2 := newPost("p2", "bob", "second", ts)
	p2.Likes = 20
	_, err = s.UpsertPost(p2)
	require.NoError(t, err)

	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id1, Score: 0.5, Label: "positive"}))
	require.NoError(t, s.AddComment(&models.Comment{PostID: id1, Author: "bob", Content: "nice", Timestamp: ts}))

	stats, err := s.SummaryStats(windowAround(ts))

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 30, stats.TotalLikes)
	assert.Equal(t, 2, stats.TotalShares)
	assert.Equal(t, 1, stats.TotalComments)
	assert.Equal(t, 4, stats.TotalCommentsCount)
	assert.InDelta(t, 15.0, stats.AvgLikes, 0.001)
	assert.InDelta(t, 0.5, stats.AvgSentiment, 0.001)
}

func TestSentimentCounts_Thresholds(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	scores := []float64{0.5, 0.05, -0.05, -0.5, 0.051}
	for i, score := range scores {
		id, err := s.UpsertPost(newPost(string(rune('a'+i)), "alice", "post", ts))
		require.NoError(t, err)
		require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id, Score: score, Label: models.ClassifyScore(score)}))
	}

	counts, err := s.SentimentCounts(windowAround(ts))

	// Границы строгие: +-0.05 ещё neutral
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Positive)
	assert.Equal(t, 2, counts.Neutral)
	assert.Equal(t, 1, counts.Negative)
}

func TestSentimentCounts_WindowExcludesOutside(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	inside, err := s.UpsertPost(newPost("in", "alice", "post", ts))
	require.NoError(t, err)
	outside, err := s.UpsertPost(newPost("out", "bob", "old post", ts.AddDate(0, -2, 0)))
	require.NoError(t, err)
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: inside, Score: 0.9, Label: "positive"}))
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: outside, Score: 0.9, Label: "positive"}))

	counts, err := s.SentimentCounts(windowAround(ts))

	require.NoError(t, err)
	assert.Equal(t, 1, counts.Positive)
}

func TestAverageSentiment_EmptyWindow(t *testing.T) {
	s := NewMemoryStorage()

	avg, err := s.AverageSentiment(windowAround(time.Now().UTC()))

	assert.NoError(t, err)
	assert.Zero(t, avg)
}

func TestTopPostsByEngagement(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	for i, likes := range []int{5, 100, 50} {
		p := newPost(string(rune('a'+i)), "alice", "post", ts)
		p.Likes = likes
		_, err := s.UpsertPost(p)
		require.NoError(t, err)
	}

	top, err := s.TopPostsByEngagement(windowAround(ts), 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 100, top[0].Likes)
	assert.Equal(t, 50, top[1].Likes)
}

func TestDailyActivity_FillsEmptyDays(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	_, err := s.UpsertPost(newPost("p1", "alice", "post", ts))
	require.NoError(t, err)

	series, err := s.DailyActivity(30)

	// Дни без активности присутствуют с нулями
	require.NoError(t, err)
	assert.Len(t, series, 30)
	assert.Equal(t, 1, series[len(series)-1].Posts)
	assert.Equal(t, 0, series[0].Posts)
}

func TestLatestExecutionLog(t *testing.T) {
	s := NewMemoryStorage()

	latest, err := s.LatestExecutionLog()
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := &models.ExecutionLog{RunID: "r1", Workflow: "import", Status: "success", StartedAt: time.Now().Add(-time.Hour)}
	newer := &models.ExecutionLog{RunID: "r2", Workflow: "scrape", Status: "failed", StartedAt: time.Now()}
	require.NoError(t, s.AddExecutionLog(older))
	require.NoError(t, s.AddExecutionLog(newer))

	latest, err = s.LatestExecutionLog()
	require.NoError(t, err)
	assert.Equal(t, "r2", latest.RunID)
}

func TestPostsWithoutSentiment(t *testing.T) {
	s := NewMemoryStorage()
	ts := time.Now().UTC()
	id1, err := s.UpsertPost(newPost("scored", "alice", "post", ts))
	require.NoError(t, err)
	_, err = s.UpsertPost(newPost("unscored", "bob", "post", ts))
	require.NoError(t, err)
	require.NoError(t, s.AddSentiment(&models.Sentiment{PostID: id1, Score: 0.1, Label: "positive"}))

	posts, err := s.PostsWithoutSentiment(10)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "unscored", posts[0].PostID)
}
