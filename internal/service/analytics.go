package service

import (
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/storage"
)

// Сколько постов попадает в топ по engagement
const TopPostsLimit = 10

// AnalyticsService собирает агрегаты из хранилища в формы ответов API
type AnalyticsService struct {
	Storage storage.Storage
}

func NewAnalyticsService(s storage.Storage) *AnalyticsService {
	return &AnalyticsService{Storage: s}
}

// Ответ /api/summary
type SummaryResponse struct {
	TotalPosts         int                     `json:"total_posts"`
	TotalComments      int                     `json:"total_comments"`
	TotalLikes         int                     `json:"total_likes"`
	TotalShares        int                     `json:"total_shares"`
	AvgLikesPerPost    float64                 `json:"avg_likes_per_post"`
	AvgCommentsPerPost float64                 `json:"avg_comments_per_post"`
	AvgSentiment       float64                 `json:"avg_sentiment"`
	EngagementRate     float64                 `json:"engagement_rate"`
	LastExecution      *models.ExecutionLog    `json:"last_execution"`
	MediaTypes         []models.MediaTypeCount `json:"media_types"`
	DailyActivity      []models.DailyActivity  `json:"daily_activity"`
}

// EngagementRate - суммарный engagement на пост, 2 знака, 0 без постов
func EngagementRate(likes, comments, shares, totalPosts int) float64 {
	if totalPosts == 0 {
		return 0
	}
	return round2(float64(likes+comments+shares) / float64(totalPosts))
}

// EngagementRatePerFollowers - engagement в процентах от аудитории,
// 0 при нулевой аудитории
func EngagementRatePerFollowers(likes, comments, followers int) float64 {
	if followers == 0 {
		return 0
	}
	return round2(float64(likes+comments) / float64(followers) * 100)
}

// Summary строит сводку дашборда. Дневная серия всегда за последние
// 30 дней, средняя тональность - глобальная (см. DESIGN.md).
func (s *AnalyticsService) Summary(w models.Window) (*SummaryResponse, error) {
	stats, err := s.Storage.SummaryStats(w)
	if err != nil {
		return nil, err
	}
	mediaTypes, err := s.Storage.MediaTypeCounts(w)
	if err != nil {
		return nil, err
	}
	daily, err := s.Storage.DailyActivity(DefaultWindowDays)
	if err != nil {
		return nil, err
	}
	lastExec, err := s.Storage.LatestExecutionLog()
	if err != nil {
		return nil, err
	}

	return &SummaryResponse{
		TotalPosts:         stats.TotalPosts,
		TotalComments:      stats.TotalComments,
		TotalLikes:         stats.TotalLikes,
		TotalShares:        stats.TotalShares,
		AvgLikesPerPost:    round2(stats.AvgLikes),
		AvgCommentsPerPost: round2(stats.AvgComments),
		AvgSentiment:       round2(stats.AvgSentiment),
		EngagementRate:     EngagementRate(stats.TotalLikes, stats.TotalCommentsCount, stats.TotalShares, stats.TotalPosts),
		LastExecution:      lastExec,
		MediaTypes:         mediaTypes,
		DailyActivity:      daily,
	}, nil
}

// Категория тональности с процентом
type CategoryStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Ответ /api/sentiment
type SentimentResponse struct {
	Positive    CategoryStat                  `json:"positive"`
	Neutral     CategoryStat                  `json:"neutral"`
	Negative    CategoryStat                  `json:"negative"`
	Total       int                           `json:"total"`
	Gauge       float64                       `json:"gauge"`
	Daily       []models.DailyValue           `json:"daily"`
	ByMediaType []models.MediaSentimentCounts `json:"by_media_type"`
}

func categoryStat(count, total int) CategoryStat {
	stat := CategoryStat{Count: count}
	if total > 0 {
		stat.Percentage = round1(float64(count) / float64(total) * 100)
	}
	return stat
}

// Sentiment строит агрегат тональности по окну
func (s *AnalyticsService) Sentiment(w models.Window) (*SentimentResponse, error) {
	counts, err := s.Storage.SentimentCounts(w)
	if err != nil {
		return nil, err
	}
	gauge, err := s.Storage.AverageSentiment(w)
	if err != nil {
		return nil, err
	}
	daily, err := s.Storage.DailySentiment(w)
	if err != nil {
		return nil, err
	}
	byMedia, err := s.Storage.SentimentByMediaType(w)
	if err != nil {
		return nil, err
	}

	total := counts.Positive + counts.Neutral + counts.Negative
	for i := range daily {
		daily[i].Value = round2(daily[i].Value)
	}
	return &SentimentResponse{
		Positive:    categoryStat(counts.Positive, total),
		Neutral:     categoryStat(counts.Neutral, total),
		Negative:    categoryStat(counts.Negative, total),
		Total:       total,
		Gauge:       round2(gauge),
		Daily:       daily,
		ByMediaType: byMedia,
	}, nil
}

// Пост в топе по engagement (контент обрезан до превью)
type TopPost struct {
	PostID         string  `json:"post_id"`
	Author         string  `json:"author"`
	ContentPreview string  `json:"content_preview"`
	Timestamp      string  `json:"timestamp"`
	MediaType      string  `json:"media_type"`
	URL            string  `json:"url"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	Engagement     int     `json:"engagement"`
	SentimentLabel *string `json:"sentiment_label"`
}

// Ответ /api/engagement
type EngagementResponse struct {
	TopPosts   []TopPost               `json:"top_posts"`
	Daily      []models.DailyValue     `json:"daily"`
	MediaTypes []models.MediaTypeCount `json:"media_types"`
	Scatter    []models.ScatterPoint   `json:"scatter"`
}

// PreviewContent обрезает контент до limit символов и добавляет многоточие
func PreviewContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}

// Engagement строит агрегат вовлечённости по окну
func (s *AnalyticsService) Engagement(w models.Window) (*EngagementResponse, error) {
	top, err := s.Storage.TopPostsByEngagement(w, TopPostsLimit)
	if err != nil {
		return nil, err
	}
	daily, err := s.Storage.DailyEngagement(w)
	if err != nil {
		return nil, err
	}
	mediaTypes, err := s.Storage.MediaTypeCounts(w)
	if err != nil {
		return nil, err
	}
	scatter, err := s.Storage.EngagementScatter(w)
	if err != nil {
		return nil, err
	}

	topPosts := make([]TopPost, 0, len(top))
	for _, p := range top {
		topPosts = append(topPosts, TopPost{
			PostID:         p.PostID,
			Author:         p.Author,
			ContentPreview: PreviewContent(p.Content, 100),
			Timestamp:      p.Timestamp.UTC().Format(time.RFC3339),
			MediaType:      p.MediaType,
			URL:            p.URL,
			Likes:          p.Likes,
			Comments:       p.CommentsCount,
			Shares:         p.Shares,
			Engagement:     p.Engagement(),
			SentimentLabel: p.SentimentLabel,
		})
	}
	for i := range daily {
		daily[i].Value = round2(daily[i].Value)
	}
	return &EngagementResponse{
		TopPosts:   topPosts,
		Daily:      daily,
		MediaTypes: mediaTypes,
		Scatter:    scatter,
	}, nil
}

// Страница постов с метаданными пагинации
type PostsResponse struct {
	Posts      []models.PostWithSentiment `json:"posts"`
	Page       int                        `json:"page"`
	PerPage    int                        `json:"per_page"`
	Total      int                        `json:"total"`
	TotalPages int                        `json:"total_pages"`
}

// ListPosts валидирует параметры и возвращает страницу постов
func (s *AnalyticsService) ListPosts(p ListParams) (*PostsResponse, error) {
	f, err := buildFilter(p)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.Storage.ListPosts(f)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.PostWithSentiment{}
	}
	return &PostsResponse{
		Posts:      posts,
		Page:       f.Page,
		PerPage:    f.PerPage,
		Total:      total,
		TotalPages: TotalPages(total, f.PerPage),
	}, nil
}

// Comments возвращает комментарии поста; неизвестный пост - пустой список
func (s *AnalyticsService) Comments(postID string) ([]models.Comment, error) {
	return s.Storage.GetCommentsForPost(postID)
}
