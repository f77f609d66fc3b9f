package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/storage"
)

// ImportService загружает батчи постов из JSON/CSV
type ImportService struct {
	Storage storage.Storage
}

func NewImportService(s storage.Storage) *ImportService {
	return &ImportService{Storage: s}
}

// Итог импорта. Cleared присутствует только если был pre-clear.
type ImportResult struct {
	Total    int            `json:"total"`
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	Cleared  map[string]int `json:"cleared,omitempty"`
}

// record - одна запись источника. JSON даёт map напрямую,
// CSV-строки приводятся к тому же виду.
type record map[string]interface{}

// ImportFile разбирает файл по расширению и импортирует записи.
// Ошибка очистки фатальна для всего запроса, ошибки записей - нет.
func (s *ImportService) ImportFile(filename string, data []byte, platform string, clearExisting bool) (*ImportResult, error) {
	var records []record
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		records, err = parseJSONRecords(data)
	case ".csv":
		records, err = parseCSVRecords(data)
	default:
		return nil, validationf(fmt.Sprintf("unsupported file type: %q, expected .json or .csv", filename))
	}
	if err != nil {
		return nil, err
	}
	return s.importRecords(records, platform, clearExisting)
}

// parseJSONRecords принимает массив записей или объект с ключом posts
func parseJSONRecords(data []byte) ([]record, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var wrapper struct {
		Posts []record `json:"posts"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Posts == nil {
		return nil, validationf("malformed JSON: expected an array of posts or an object with a posts key")
	}
	return wrapper.Posts, nil
}

// parseCSVRecords превращает CSV-строки в записи по заголовку
func parseCSVRecords(data []byte) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, validationf(fmt.Sprintf("malformed CSV: %v", err))
	}
	if len(rows) == 0 {
		return []record{}, nil
	}
	header := rows[0]
	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := record{}
		for i, value := range row {
			if i < len(header) {
				rec[header[i]] = value
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *ImportService) importRecords(records []record, platform string, clearExisting bool) (*ImportResult, error) {
	result := &ImportResult{Total: len(records)}

	if clearExisting {
		counts, err := s.Storage.ClearAll()
		if err != nil {
			// частичный импорт в полуочищенную базу недопустим
			return nil, &ImportError{Message: fmt.Sprintf("failed to clear existing data: %v", err)}
		}
		result.Cleared = counts
	}

	for i, rec := range records {
		if err := s.importRecord(rec, platform); err != nil {
			result.Skipped++
			slog.Warn("Skipping record", "index", i, "reason", err)
			continue
		}
		result.Inserted++
	}
	slog.Info("Import finished", "total", result.Total, "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}

func (s *ImportService) importRecord(rec record, platform string) error {
	postID := rec.str("post_id")
	author := rec.str("author")
	tsStr := rec.str("timestamp")
	if postID == "" {
		return validationf("missing post_id")
	}
	if author == "" {
		return validationf("missing author")
	}
	if tsStr == "" {
		return validationf("missing timestamp")
	}
	ts, err := parseRecordTimestamp(tsStr)
	if err != nil {
		return err
	}

	if p := rec.str("platform"); p != "" {
		platform = p
	}
	embedded := rec.commentList()

	commentsCount := rec.intOr("comments_count", len(embedded))
	mediaType := rec.str("post_type", "media_type")
	if mediaType == "" {
		mediaType = "post"
	}

	raw, _ := json.Marshal(rec)
	post := &models.Post{
		PostID:        postID,
		Platform:      platform,
		Author:        author,
		Content:       rec.str("content", "caption"),
		Timestamp:     ts,
		Likes:         rec.intOr("likes", 0),
		CommentsCount: commentsCount,
		Shares:        rec.intOr("shares", 0),
		URL:           rec.str("post_url", "url"),
		MediaType:     mediaType,
		Hashtags:      rec.hashtags(),
		RawData:       raw,
	}
	id, err := s.Storage.UpsertPost(post)
	if err != nil {
		return err
	}

	if sent := rec.sentiment(id); sent != nil {
		if err := s.Storage.AddSentiment(sent); err != nil {
			slog.Warn("Failed to insert sentiment", "post_id", postID, "err", err)
		}
	}

	for _, cr := range embedded {
		comment := buildComment(cr, id, ts)
		if comment == nil {
			continue // пустой текст
		}
		if err := s.Storage.AddComment(comment); err != nil {
			slog.Warn("Failed to insert comment", "post_id", postID, "err", err)
		}
	}
	return nil
}

// str возвращает первое непустое строковое значение по списку ключей
func (r record) str(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// intOr парсит целое поле, fallback при отсутствии или мусоре.
// Отрицательные значения источника приводятся к нулю.
func (r record) intOr(key string, fallback int) int {
	v, ok := r[key]
	if !ok || v == nil {
		return fallback
	}
	var n int
	switch value := v.(type) {
	case float64:
		n = int(value)
	case int:
		n = value
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}
	if n < 0 {
		return 0
	}
	return n
}

func (r record) floatOr(key string, fallback float64) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return fallback
	}
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// hashtags принимает список или строку через запятую
func (r record) hashtags() []string {
	switch v := r["hashtags"].(type) {
	case []interface{}:
		tags := []string{}
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		tags := []string{}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
		return tags
	}
	return []string{}
}

// sentiment строит sentiment-строку: вложенный объект приоритетнее,
// иначе - деградированная строка из плоских CSV-полей
func (r record) sentiment(postID int64) *models.Sentiment {
	if obj, ok := r["sentiment"].(map[string]interface{}); ok {
		sub := record(obj)
		label := sub.str("label")
		if label == "" {
			label = models.SentimentNeutral
		}
		model := sub.str("model")
		if model == "" {
			model = "vader"
		}
		return &models.Sentiment{
			PostID:     postID,
			Score:      sub.floatOr("score", 0),
			Label:      label,
			Confidence: sub.floatOr("confidence", 0),
			Positive:   sub.floatOr("positive", 0),
			Neutral:    sub.floatOr("neutral", 0),
			Negative:   sub.floatOr("negative", 0),
			Model:      model,
		}
	}

	// пустая CSV-ячейка - это отсутствие оценки, а не ноль
	hasScore := false
	if v, ok := r["sentiment_score"]; ok && v != nil {
		if s, isStr := v.(string); !isStr || strings.TrimSpace(s) != "" {
			hasScore = true
		}
	}
	label := r.str("sentiment_label")
	if !hasScore && label == "" {
		return nil
	}
	if label == "" {
		label = models.SentimentNeutral
	}
	return &models.Sentiment{
		PostID: postID,
		Score:  r.floatOr("sentiment_score", 0),
		Label:  label,
		Model:  "vader",
	}
}

// commentList достаёт вложенный массив комментариев
func (r record) commentList() []record {
	list, ok := r["comments"].([]interface{})
	if !ok {
		return nil
	}
	comments := make([]record, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			comments = append(comments, record(obj))
		}
	}
	return comments
}

// buildComment собирает комментарий; nil при пустом тексте.
// Автор: author -> username -> owner_username -> unknown.
// Таймстемп комментария без своего времени наследует время поста.
func buildComment(rec record, postID int64, postTime time.Time) *models.Comment {
	content := rec.str("text", "content")
	if content == "" {
		return nil
	}
	author := rec.str("author", "username", "owner_username")
	if author == "" {
		author = "unknown"
	}
	ts := postTime
	if raw := rec.str("timestamp"); raw != "" {
		if parsed, err := parseRecordTimestamp(raw); err == nil {
			ts = parsed
		}
	}
	comment := &models.Comment{
		PostID:    postID,
		Author:    author,
		Content:   content,
		Timestamp: ts,
	}
	if label := rec.str("sentiment_label"); label != "" {
		comment.SentimentLabel = &label
	}
	return comment
}

// parseRecordTimestamp разбирает ISO-8601 таймстемп записи,
// суффикс Z означает UTC, naive-время трактуется как UTC
func parseRecordTimestamp(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationf(fmt.Sprintf("invalid timestamp: %q", value))
}
