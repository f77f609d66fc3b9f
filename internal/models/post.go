package models

import (
	"encoding/json"
	"time"
)

// Модель поста из соцсети. PostID - естественный ключ платформы,
// ID - внутренний суррогатный ключ.
type Post struct {
	ID            int64           `json:"id"`
	PostID        string          `json:"post_id"`
	Platform      string          `json:"platform"`
	Author        string          `json:"author"`
	Content       string          `json:"content"`
	Timestamp     time.Time       `json:"timestamp"`
	Likes         int             `json:"likes"`
	CommentsCount int             `json:"comments_count"`
	Shares        int             `json:"shares"`
	URL           string          `json:"url"`
	MediaType     string          `json:"media_type"`
	Hashtags      []string        `json:"hashtags"`
	RawData       json.RawMessage `json:"raw_data,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Пост вместе с результатом анализа тональности (LEFT JOIN, поэтому указатели)
type PostWithSentiment struct {
	Post
	SentimentScore *float64 `json:"sentiment_score"`
	SentimentLabel *string  `json:"sentiment_label"`
}

// Engagement поста - сумма всех счётчиков
func (p *Post) Engagement() int {
	return p.Likes + p.CommentsCount + p.Shares
}
