package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// MemoryStorage - хранилище в памяти. Повторяет семантику PostgresStorage,
// включая сброс счётчиков id при ClearAll.
type MemoryStorage struct {
	posts      map[int64]*models.Post // по внутреннему id
	byPostID   map[string]int64       // естественный ключ -> внутренний id
	sentiments map[int64]*models.Sentiment
	comments   map[int64][]models.Comment
	logs       []models.ExecutionLog

	nextPostID    int64
	nextSentID    int64
	nextCommentID int64
	nextLogID     int64

	mu sync.RWMutex
}

// NewMemoryStorage создает новое in-memory хранилище
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{}
	s.reset()
	return s
}

func (s *MemoryStorage) reset() {
	s.posts = make(map[int64]*models.Post)
	s.byPostID = make(map[string]int64)
	s.sentiments = make(map[int64]*models.Sentiment)
	s.comments = make(map[int64][]models.Comment)
	s.logs = nil
	s.nextPostID = 1
	s.nextSentID = 1
	s.nextCommentID = 1
	s.nextLogID = 1
}

func inWindow(ts time.Time, w models.Window) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}

func (s *MemoryStorage) withSentiment(p *models.Post) models.PostWithSentiment {
	ps := models.PostWithSentiment{Post: *p}
	if sent, ok := s.sentiments[p.ID]; ok {
		score, label := sent.Score, sent.Label
		ps.SentimentScore = &score
		ps.SentimentLabel = &label
	}
	return ps
}

func (s *MemoryStorage) matches(p *models.Post, f models.PostFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Content), needle) &&
			!strings.Contains(strings.ToLower(p.Author), needle) {
			return false
		}
	}
	if f.StartDate != nil && p.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && p.Timestamp.After(*f.EndDate) {
		return false
	}
	if f.MediaType != "" && p.MediaType != f.MediaType {
		return false
	}
	if f.Sentiment != "" {
		sent, ok := s.sentiments[p.ID]
		if !ok || sent.Label != f.Sentiment {
			return false
		}
	}
	return true
}

// ListPosts возвращает страницу постов и общее число совпадений
func (s *MemoryStorage) ListPosts(f models.PostFilter) ([]models.PostWithSentiment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.PostWithSentiment
	for _, p := range s.posts {
		if s.matches(p, f) {
			matched = append(matched, s.withSentiment(p))
		}
	}
	sortPosts(matched, f.SortBy, f.SortOrder)

	total := len(matched)
	start := (f.Page - 1) * f.PerPage
	if start > total {
		return []models.PostWithSentiment{}, total, nil
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// sortPosts повторяет ORDER BY Postgres-версии: неизвестный sort_by
// откатывается на timestamp, NULL-оценки всегда в конце, tie-break по id.
func sortPosts(posts []models.PostWithSentiment, sortBy, sortOrder string) {
	desc := !strings.EqualFold(sortOrder, "asc")
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := &posts[i], &posts[j]
		var less, eq bool
		switch sortBy {
		case "author":
			less, eq = a.Author < b.Author, a.Author == b.Author
		case "likes":
			less, eq = a.Likes < b.Likes, a.Likes == b.Likes
		case "comments":
			less, eq = a.CommentsCount < b.CommentsCount, a.CommentsCount == b.CommentsCount
		case "sentiment":
			switch {
			case a.SentimentScore == nil && b.SentimentScore == nil:
				eq = true
			case a.SentimentScore == nil:
				return false // NULLS LAST
			case b.SentimentScore == nil:
				return true
			default:
				less = *a.SentimentScore < *b.SentimentScore
				eq = *a.SentimentScore == *b.SentimentScore
			}
		default:
			less = a.Timestamp.Before(b.Timestamp)
			eq = a.Timestamp.Equal(b.Timestamp)
		}
		if eq {
			if desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})
}

// GetPostByPostID возвращает пост по естественному ключу
func (s *MemoryStorage) GetPostByPostID(postID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPostID[postID]
	if !ok {
		return nil, ErrNotFound
	}
	post := *s.posts[id]
	return &post, nil
}

// GetCommentsForPost возвращает комментарии поста (пустой список, если поста нет)
func (s *MemoryStorage) GetCommentsForPost(postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.Comment{}
	id, ok := s.byPostID[postID]
	if !ok {
		return comments, nil
	}
	comments = append(comments, s.comments[id]...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.After(comments[j].Timestamp)
	})
	return comments, nil
}

// UpsertPost вставляет пост или перезаписывает все изменяемые поля
func (s *MemoryStorage) UpsertPost(p *models.Post) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if id, ok := s.byPostID[p.PostID]; ok {
		existing := s.posts[id]
		p.ID = id
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		clone := *p
		s.posts[id] = &clone
		return id, nil
	}
	p.ID = s.nextPostID
	s.nextPostID++
	p.CreatedAt = now
	p.UpdatedAt = now
	clone := *p
	s.posts[p.ID] = &clone
	s.byPostID[p.PostID] = p.ID
	return p.ID, nil
}

// AddSentiment заменяет sentiment-строку поста
func (s *MemoryStorage) AddSentiment(sent *models.Sentiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[sent.PostID]; !ok {
		return ErrNotFound
	}
	sent.ID = s.nextSentID
	s.nextSentID++
	sent.CreatedAt = time.Now().UTC()
	clone := *sent
	s.sentiments[sent.PostID] = &clone
	return nil
}

// AddComment добавляет комментарий к посту
func (s *MemoryStorage) AddComment(c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[c.PostID]; !ok {
		return ErrNotFound
	}
	c.ID = s.nextCommentID
	s.nextCommentID++
	c.CreatedAt = time.Now().UTC()
	s.comments[c.PostID] = append(s.comments[c.PostID], *c)
	return nil
}

// ClearAll очищает хранилище и сбрасывает счётчики id
func (s *MemoryStorage) ClearAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalComments := 0
	for _, cs := range s.comments {
		totalComments += len(cs)
	}
	counts := map[string]int{
		"posts":          len(s.posts),
		"sentiments":     len(s.sentiments),
		"comments":       totalComments,
		"execution_logs": len(s.logs),
	}
	s.reset()
	return counts, nil
}

// AddExecutionLog добавляет запись аудита прогона
func (s *MemoryStorage) AddExecutionLog(e *models.ExecutionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextLogID
	s.nextLogID++
	e.CreatedAt = time.Now().UTC()
	s.logs = append(s.logs, *e)
	return nil
}

// LatestExecutionLog возвращает последний прогон, nil если журнал пуст
func (s *MemoryStorage) LatestExecutionLog() (*models.ExecutionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.logs) == 0 {
		return nil, nil
	}
	latest := s.logs[0]
	for _, e := range s.logs[1:] {
		if e.StartedAt.After(latest.StartedAt) ||
			(e.StartedAt.Equal(latest.StartedAt) && e.ID > latest.ID) {
			latest = e
		}
	}
	return &latest, nil
}

// SummaryStats считает итоговые числа по окну (средняя тональность - глобально)
func (s *MemoryStorage) SummaryStats(w models.Window) (*models.SummaryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st models.SummaryStats
	for _, p := range s.posts {
		if !inWindow(p.Timestamp, w) {
			continue
		}
		st.TotalPosts++
		st.TotalLikes += p.Likes
		st.TotalShares += p.Shares
		st.TotalCommentsCount += p.CommentsCount
		st.TotalComments += len(s.comments[p.ID])
	}
	if st.TotalPosts > 0 {
		st.AvgLikes = float64(st.TotalLikes) / float64(st.TotalPosts)
		st.AvgComments = float64(st.TotalCommentsCount) / float64(st.TotalPosts)
	}
	if len(s.sentiments) > 0 {
		var sum float64
		for _, sent := range s.sentiments {
			sum += sent.Score
		}
		st.AvgSentiment = sum / float64(len(s.sentiments))
	}
	return &st, nil
}

// DailyActivity возвращает посты и комментарии по дням за последние days дней
func (s *MemoryStorage) DailyActivity(days int) ([]models.DailyActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().UTC().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)
	postCounts := map[string]int{}
	commentCounts := map[string]int{}
	for _, p := range s.posts {
		if !p.Timestamp.Before(since) {
			postCounts[p.Timestamp.UTC().Format("2006-01-02")]++
		}
		for _, c := range s.comments[p.ID] {
			if !c.Timestamp.Before(since) {
				commentCounts[c.Timestamp.UTC().Format("2006-01-02")]++
			}
		}
	}

	series := make([]models.DailyActivity, 0, days)
	for d := 0; d < days; d++ {
		date := since.AddDate(0, 0, d).Format("2006-01-02")
		series = append(series, models.DailyActivity{
			Date:     date,
			Posts:    postCounts[date],
			Comments: commentCounts[date],
		})
	}
	return series, nil
}

// MediaTypeCounts - гистограмма постов по типам контента в окне
func (s *MemoryStorage) MediaTypeCounts(w models.Window) ([]models.MediaTypeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{}
	for _, p := range s.posts {
		if inWindow(p.Timestamp, w) {
			counts[p.MediaType]++
		}
	}
	result := make([]models.MediaTypeCount, 0, len(counts))
	for mt, n := range counts {
		result = append(result, models.MediaTypeCount{MediaType: mt, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].MediaType < result[j].MediaType
	})
	return result, nil
}

// SentimentCounts - количество постов по категориям тональности в окне
func (s *MemoryStorage) SentimentCounts(w models.Window) (*models.SentimentCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c models.SentimentCounts
	for postID, sent := range s.sentiments {
		p := s.posts[postID]
		if p == nil || !inWindow(p.Timestamp, w) {
			continue
		}
		switch models.ClassifyScore(sent.Score) {
		case "positive":
			c.Positive++
		case "negative":
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return &c, nil
}

// AverageSentiment - средняя оценка тональности по окну (gauge)
func (s *MemoryStorage) AverageSentiment(w models.Window) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	var n int
	for postID, sent := range s.sentiments {
		p := s.posts[postID]
		if p == nil || !inWindow(p.Timestamp, w) {
			continue
		}
		sum += sent.Score
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// DailySentiment - средняя оценка тональности по дням окна
func (s *MemoryStorage) DailySentiment(w models.Window) ([]models.DailyValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := map[string]float64{}
	counts := map[string]int{}
	for postID, sent := range s.sentiments {
		p := s.posts[postID]
		if p == nil || !inWindow(p.Timestamp, w) {
			continue
		}
		date := p.Timestamp.UTC().Format("2006-01-02")
		sums[date] += sent.Score
		counts[date]++
	}
	return averagedSeries(sums, counts), nil
}

// DailyEngagement - средний engagement постов по дням окна
func (s *MemoryStorage) DailyEngagement(w models.Window) ([]models.DailyValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, p := range s.posts {
		if !inWindow(p.Timestamp, w) {
			continue
		}
		date := p.Timestamp.UTC().Format("2006-01-02")
		sums[date] += float64(p.Engagement())
		counts[date]++
	}
	return averagedSeries(sums, counts), nil
}

func averagedSeries(sums map[string]float64, counts map[string]int) []models.DailyValue {
	var values []models.DailyValue
	for date, sum := range sums {
		values = append(values, models.DailyValue{Date: date, Value: sum / float64(counts[date])})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Date < values[j].Date })
	return values
}

// SentimentByMediaType - разбивка категорий тональности по типам контента
func (s *MemoryStorage) SentimentByMediaType(w models.Window) ([]models.MediaSentimentCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := map[string]*models.MediaSentimentCounts{}
	for postID, sent := range s.sentiments {
		p := s.posts[postID]
		if p == nil || !inWindow(p.Timestamp, w) {
			continue
		}
		mc, ok := byType[p.MediaType]
		if !ok {
			mc = &models.MediaSentimentCounts{MediaType: p.MediaType}
			byType[p.MediaType] = mc
		}
		switch models.ClassifyScore(sent.Score) {
		case "positive":
			mc.Positive++
		case "negative":
			mc.Negative++
		default:
			mc.Neutral++
		}
	}
	result := make([]models.MediaSentimentCounts, 0, len(byType))
	for _, mc := range byType {
		result = append(result, *mc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MediaType < result[j].MediaType })
	return result, nil
}

// TopPostsByEngagement - топ-N постов окна по сумме счётчиков
func (s *MemoryStorage) TopPostsByEngagement(w models.Window, limit int) ([]models.PostWithSentiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.PostWithSentiment
	for _, p := range s.posts {
		if inWindow(p.Timestamp, w) {
			posts = append(posts, s.withSentiment(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		ei, ej := posts[i].Engagement(), posts[j].Engagement()
		if ei != ej {
			return ei > ej
		}
		return posts[i].ID < posts[j].ID
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// EngagementScatter - точки лайки/комментарии, по одной на пост окна
func (s *MemoryStorage) EngagementScatter(w models.Window) ([]models.ScatterPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ordered []*models.Post
	for _, p := range s.posts {
		if inWindow(p.Timestamp, w) {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	points := make([]models.ScatterPoint, 0, len(ordered))
	for _, p := range ordered {
		points = append(points, models.ScatterPoint{PostID: p.PostID, Likes: p.Likes, Comments: p.CommentsCount})
	}
	return points, nil
}

// ContentRows - содержимое постов окна для контент-аналитики
func (s *MemoryStorage) ContentRows(w models.Window) ([]models.ContentRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ordered []*models.Post
	for _, p := range s.posts {
		if inWindow(p.Timestamp, w) {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	rows := make([]models.ContentRow, 0, len(ordered))
	for _, p := range ordered {
		rows = append(rows, models.ContentRow{Content: p.Content, Hashtags: p.Hashtags, Timestamp: p.Timestamp})
	}
	return rows, nil
}

// PostsWithoutSentiment - посты без sentiment-строки (для batch-оценки)
func (s *MemoryStorage) PostsWithoutSentiment(limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.Post
	for _, p := range s.posts {
		if _, ok := s.sentiments[p.ID]; !ok {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Timestamp.After(posts[j].Timestamp) })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
