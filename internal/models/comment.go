package models

import "time"

// Модель комментария к посту
type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"-"`
	Author         string    `json:"author"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	SentimentLabel *string   `json:"sentiment_label"`
	CreatedAt      time.Time `json:"created_at"`
}
