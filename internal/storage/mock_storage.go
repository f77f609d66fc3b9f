package storage

import (
	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListPosts(f models.PostFilter) ([]models.PostWithSentiment, int, error) {
	args := m.Called(f)
	return args.Get(0).([]models.PostWithSentiment), args.Int(1), args.Error(2)
}

func (m *MockStorage) GetPostByPostID(postID string) (*models.Post, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) GetCommentsForPost(postID string) ([]models.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockStorage) UpsertPost(p *models.Post) (int64, error) {
	args := m.Called(p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) AddSentiment(s *models.Sentiment) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockStorage) AddComment(c *models.Comment) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) ClearAll() (map[string]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStorage) AddExecutionLog(e *models.ExecutionLog) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockStorage) LatestExecutionLog() (*models.ExecutionLog, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionLog), args.Error(1)
}

func (m *MockStorage) SummaryStats(w models.Window) (*models.SummaryStats, error) {
	args := m.Called(w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SummaryStats), args.Error(1)
}

func (m *MockStorage) DailyActivity(days int) ([]models.DailyActivity, error) {
	args := m.Called(days)
	return args.Get(0).([]models.DailyActivity), args.Error(1)
}

func (m *MockStorage) MediaTypeCounts(w models.Window) ([]models.MediaTypeCount, error) {
	args := m.Called(w)
	return args.Get(0).([]models.MediaTypeCount), args.Error(1)
}

func (m *MockStorage) SentimentCounts(w models.Window) (*models.SentimentCounts, error) {
	args := m.Called(w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SentimentCounts), args.Error(1)
}

func (m *MockStorage) AverageSentiment(w models.Window) (float64, error) {
	args := m.Called(w)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStorage) DailySentiment(w models.Window) ([]models.DailyValue, error) {
	args := m.Called(w)
	return args.Get(0).([]models.DailyValue), args.Error(1)
}

func (m *MockStorage) SentimentByMediaType(w models.Window) ([]models.MediaSentimentCounts, error) {
	args := m.Called(w)
	return args.Get(0).([]models.MediaSentimentCounts), args.Error(1)
}

func (m *MockStorage) TopPostsByEngagement(w models.Window, limit int) ([]models.PostWithSentiment, error) {
	args := m.Called(w, limit)
	return args.Get(0).([]models.PostWithSentiment), args.Error(1)
}

func (m *MockStorage) DailyEngagement(w models.Window) ([]models.DailyValue, error) {
	args := m.Called(w)
	return args.Get(0).([]models.DailyValue), args.Error(1)
}

func (m *MockStorage) EngagementScatter(w models.Window) ([]models.ScatterPoint, error) {
	args := m.Called(w)
	return args.Get(0).([]models.ScatterPoint), args.Error(1)
}

func (m *MockStorage) ContentRows(w models.Window) ([]models.ContentRow, error) {
	args := m.Called(w)
	return args.Get(0).([]models.ContentRow), args.Error(1)
}

func (m *MockStorage) PostsWithoutSentiment(limit int) ([]models.Post, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Post), args.Error(1)
}
