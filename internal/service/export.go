package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// Страница "все строки" для выгрузки без пагинации
const exportPageSize = 1000000

// Фиксированный набор колонок выгрузки
var exportHeader = []string{
	"post_id", "platform", "author", "content", "timestamp",
	"likes", "comments_count", "shares", "url", "media_type",
	"sentiment_score", "sentiment_label",
}

// ExportFilename - имя файла выгрузки с таймстемпом
func ExportFilename(now time.Time) string {
	return "posts_export_" + now.Format("20060102_150405") + ".csv"
}

// ExportCSV пишет отфильтрованные посты в CSV. Пагинация не применяется,
// пустой результат даёт CSV из одного заголовка.
func (s *AnalyticsService) ExportCSV(w io.Writer, p ListParams) error {
	p.Page = ""
	p.PerPage = ""
	f, err := buildFilter(p)
	if err != nil {
		return err
	}
	f.PerPage = exportPageSize

	posts, _, err := s.Storage.ListPosts(f)
	if err != nil {
		return err
	}
	return writePostsCSV(w, posts)
}

func writePostsCSV(w io.Writer, posts []models.PostWithSentiment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, p := range posts {
		score, label := "", ""
		if p.SentimentScore != nil {
			score = strconv.FormatFloat(*p.SentimentScore, 'f', -1, 64)
		}
		if p.SentimentLabel != nil {
			label = *p.SentimentLabel
		}
		row := []string{
			p.PostID,
			p.Platform,
			p.Author,
			p.Content,
			p.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.CommentsCount),
			strconv.Itoa(p.Shares),
			p.URL,
			p.MediaType,
			score,
			label,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
