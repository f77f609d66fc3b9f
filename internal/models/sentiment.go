package models

import "time"

// Категории тональности
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ClassifyScore относит compound-оценку к категории.
// Границы строгие: ровно 0.05 и -0.05 - это ещё neutral.
func ClassifyScore(score float64) string {
	switch {
	case score > 0.05:
		return SentimentPositive
	case score < -0.05:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Результат анализа тональности поста (одна строка на пост).
// Score - compound-оценка VADER, Positive/Neutral/Negative - компоненты.
type Sentiment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"-"`
	Score      float64   `json:"score"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Positive   float64   `json:"positive"`
	Neutral    float64   `json:"neutral"`
	Negative   float64   `json:"negative"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}
