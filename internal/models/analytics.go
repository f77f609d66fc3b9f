package models

import "time"

// Сырые строки агрегатных запросов. Хранилище возвращает их как есть,
// сервисный слой превращает в ответы API.

// Итоговые числа по окну. AvgSentiment считается глобально,
// по всем sentiment-строкам, а не по окну - так делал исходный дашборд.
type SummaryStats struct {
	TotalPosts         int     `json:"total_posts"`
	TotalComments      int     `json:"total_comments"`
	TotalLikes         int     `json:"total_likes"`
	TotalShares        int     `json:"total_shares"`
	TotalCommentsCount int     `json:"total_comments_count"`
	AvgLikes           float64 `json:"avg_likes"`
	AvgComments        float64 `json:"avg_comments"`
	AvgSentiment       float64 `json:"avg_sentiment"`
}

// Количество постов и комментариев за день
type DailyActivity struct {
	Date     string `json:"date"`
	Posts    int    `json:"posts"`
	Comments int    `json:"comments"`
}

// Значение метрики за день (средняя тональность, средний engagement)
type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Гистограмма по типам контента
type MediaTypeCount struct {
	MediaType string `json:"media_type"`
	Count     int    `json:"count"`
}

// Количество постов по категориям тональности
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Разбивка категорий тональности по типу контента
type MediaSentimentCounts struct {
	MediaType string `json:"media_type"`
	Positive  int    `json:"positive"`
	Neutral   int    `json:"neutral"`
	Negative  int    `json:"negative"`
}

// Точка scatter-графика лайки/комментарии (один пост - одна точка)
type ScatterPoint struct {
	PostID   string `json:"post_id"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
}

// Строка для контент-аналитики (хэштеги, ключевые слова, heatmap)
type ContentRow struct {
	Content   string
	Hashtags  []string
	Timestamp time.Time
}
