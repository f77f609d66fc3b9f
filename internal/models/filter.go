package models

import "time"

// Допустимые значения sort_by и их колонки. Неизвестное значение
// молча заменяется на timestamp (документированная лояльность).
var SortColumns = map[string]string{
	"timestamp": "p.timestamp",
	"author":    "p.author",
	"likes":     "p.likes",
	"comments":  "p.comments_count",
	"sentiment": "s.score",
}

// Параметры фильтрации/сортировки/пагинации списка постов.
// Заполняется сервисным слоем уже после валидации.
type PostFilter struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	MediaType string
	Sentiment string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// Окно выборки [Start, End] для агрегатов. Всегда конкретное:
// дефолт (последние 30 дней) подставляет сервисный слой.
type Window struct {
	Start time.Time
	End   time.Time
}
