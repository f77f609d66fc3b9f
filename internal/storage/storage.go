package storage

import (
	"errors"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = errors.New("not found")

// Storage - интерфейс для всех типов хранилищ (in-memory и PostgreSQL)
type Storage interface {
	// Списки и выгрузка
	ListPosts(f models.PostFilter) ([]models.PostWithSentiment, int, error)
	GetPostByPostID(postID string) (*models.Post, error)
	GetCommentsForPost(postID string) ([]models.Comment, error)

	// Импорт
	UpsertPost(p *models.Post) (int64, error)
	AddSentiment(s *models.Sentiment) error
	AddComment(c *models.Comment) error
	ClearAll() (map[string]int, error)

	// Журнал выполнения
	AddExecutionLog(e *models.ExecutionLog) error
	LatestExecutionLog() (*models.ExecutionLog, error)

	// Агрегаты
	SummaryStats(w models.Window) (*models.SummaryStats, error)
	DailyActivity(days int) ([]models.DailyActivity, error)
	MediaTypeCounts(w models.Window) ([]models.MediaTypeCount, error)
	SentimentCounts(w models.Window) (*models.SentimentCounts, error)
	AverageSentiment(w models.Window) (float64, error)
	DailySentiment(w models.Window) ([]models.DailyValue, error)
	SentimentByMediaType(w models.Window) ([]models.MediaSentimentCounts, error)
	TopPostsByEngagement(w models.Window, limit int) ([]models.PostWithSentiment, error)
	DailyEngagement(w models.Window) ([]models.DailyValue, error)
	EngagementScatter(w models.Window) ([]models.ScatterPoint, error)
	ContentRows(w models.Window) ([]models.ContentRow, error)

	// Для batch-оценки тональности
	PostsWithoutSentiment(limit int) ([]models.Post, error)
}
