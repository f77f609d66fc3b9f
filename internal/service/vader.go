package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/storage"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	mdLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks убирает markdown-ссылки (оставляя текст) и голые URL
func RemoveLinks(input string) string {
	input = mdLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText приводит markdown-контент поста к обычному тексту
func PlainText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := strings.Join(strings.Fields(string(output)), " ")
	return RemoveLinks(plain)
}

// ScoreText считает VADER-оценку текста. Категория назначается
// по тем же порогам, что и в агрегатах (+-0.05).
func ScoreText(text string) models.Sentiment {
	scores := analyzer.PolarityScores(PlainText(text))
	return models.Sentiment{
		Score:    scores.Compound,
		Label:    models.ClassifyScore(scores.Compound),
		Positive: scores.Positive,
		Neutral:  scores.Neutral,
		Negative: scores.Negative,
		Model:    "vader",
	}
}

// AnalyzerService оценивает тональность постов, у которых ещё нет оценки
type AnalyzerService struct {
	Storage storage.Storage
}

func NewAnalyzerService(s storage.Storage) *AnalyzerService {
	return &AnalyzerService{Storage: s}
}

// ScorePending оценивает до limit неоценённых постов.
// Останавливается по отмене контекста (жёсткий дедлайн batch-задачи).
func (s *AnalyzerService) ScorePending(ctx context.Context, limit int) (int, error) {
	posts, err := s.Storage.PostsWithoutSentiment(limit)
	if err != nil {
		return 0, err
	}

	scored := 0
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return scored, err
		}
		sent := ScoreText(post.Content)
		sent.PostID = post.ID
		if err := s.Storage.AddSentiment(&sent); err != nil {
			slog.Error("Failed to store sentiment", "post_id", post.PostID, "err", err)
			return scored, err
		}
		scored++
	}
	slog.Info("Scored posts", "count", scored)
	return scored, nil
}
