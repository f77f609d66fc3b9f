package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"

	"github.com/lib/pq"
)

// PostgresStorage - хранилище в PostgreSQL
type PostgresStorage struct {
	DB *sql.DB
}

// NewPostgresStorage создаёт экземпляр PostgreSQL-хранилища
func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{DB: db}
}

const postColumns = `p.id, p.post_id, p.platform, p.author, p.content, p.timestamp,
	p.likes, p.comments_count, p.shares, p.url, p.media_type, p.hashtags,
	p.created_at, p.updated_at`

func scanPostWithSentiment(rows *sql.Rows) (models.PostWithSentiment, error) {
	var post models.PostWithSentiment
	var url sql.NullString
	err := rows.Scan(&post.ID, &post.PostID, &post.Platform, &post.Author, &post.Content,
		&post.Timestamp, &post.Likes, &post.CommentsCount, &post.Shares, &url,
		&post.MediaType, pq.Array(&post.Hashtags), &post.CreatedAt, &post.UpdatedAt,
		&post.SentimentScore, &post.SentimentLabel)
	post.URL = url.String
	return post, err
}

// ListPosts возвращает страницу постов и общее число совпадений
func (s *PostgresStorage) ListPosts(f models.PostFilter) ([]models.PostWithSentiment, int, error) {
	b := buildPostConditions(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM posts p LEFT JOIN sentiments s ON s.post_id = p.id" + b.where()
	if err := s.DB.QueryRow(countQuery, b.args...).Scan(&total); err != nil {
		slog.Error("Error counting posts", "err", err)
		return nil, 0, err
	}

	query := "SELECT " + postColumns + ", s.score, s.label FROM posts p LEFT JOIN sentiments s ON s.post_id = p.id" +
		b.where() + orderClause(f.SortBy, f.SortOrder) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", b.next(), b.next()+1)
	args := append(b.args, f.PerPage, (f.Page-1)*f.PerPage)

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		slog.Error("Error fetching posts", "err", err)
		return nil, 0, err
	}
	defer rows.Close()

	var posts []models.PostWithSentiment
	for rows.Next() {
		post, err := scanPostWithSentiment(rows)
		if err != nil {
			slog.Error("Error scanning post row", "err", err)
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

// GetPostByPostID возвращает пост по естественному ключу платформы
func (s *PostgresStorage) GetPostByPostID(postID string) (*models.Post, error) {
	var post models.Post
	var url sql.NullString
	err := s.DB.QueryRow(`SELECT id, post_id, platform, author, content, timestamp,
		likes, comments_count, shares, url, media_type, hashtags, created_at, updated_at
		FROM posts WHERE post_id = $1`, postID).
		Scan(&post.ID, &post.PostID, &post.Platform, &post.Author, &post.Content,
			&post.Timestamp, &post.Likes, &post.CommentsCount, &post.Shares, &url,
			&post.MediaType, pq.Array(&post.Hashtags), &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Error("Error fetching post", "post_id", postID, "err", err)
		return nil, err
	}
	post.URL = url.String
	return &post, nil
}

// GetCommentsForPost возвращает комментарии поста (пустой список, если поста нет)
func (s *PostgresStorage) GetCommentsForPost(postID string) ([]models.Comment, error) {
	rows, err := s.DB.Query(`SELECT c.id, c.post_id, c.author, c.content, c.timestamp,
		c.sentiment_label, c.created_at
		FROM comments c JOIN posts p ON p.id = c.post_id
		WHERE p.post_id = $1 ORDER BY c.timestamp DESC`, postID)
	if err != nil {
		slog.Error("Error fetching comments", "post_id", postID, "err", err)
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &c.Timestamp,
			&c.SentimentLabel, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpsertPost вставляет пост или перезаписывает все изменяемые поля
// по конфликту естественного ключа. Возвращает внутренний id.
func (s *PostgresStorage) UpsertPost(p *models.Post) (int64, error) {
	var url interface{}
	if p.URL != "" {
		url = p.URL
	}
	err := s.DB.QueryRow(`INSERT INTO posts
		(post_id, platform, author, content, timestamp, likes, comments_count, shares, url, media_type, hashtags, raw_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (post_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			author = EXCLUDED.author,
			content = EXCLUDED.content,
			timestamp = EXCLUDED.timestamp,
			likes = EXCLUDED.likes,
			comments_count = EXCLUDED.comments_count,
			shares = EXCLUDED.shares,
			url = EXCLUDED.url,
			media_type = EXCLUDED.media_type,
			hashtags = EXCLUDED.hashtags,
			raw_data = EXCLUDED.raw_data,
			updated_at = now()
		RETURNING id`,
		p.PostID, p.Platform, p.Author, p.Content, p.Timestamp, p.Likes,
		p.CommentsCount, p.Shares, url, p.MediaType, pq.Array(p.Hashtags),
		nullableJSON(p.RawData)).Scan(&p.ID)
	if err != nil {
		slog.Error("DB Upsert Error", "post_id", p.PostID, "err", err)
		return 0, err
	}
	return p.ID, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// AddSentiment заменяет sentiment-строку поста (отношение фактически 1:1,
// при повторном импорте старая оценка вытесняется новой)
func (s *PostgresStorage) AddSentiment(sent *models.Sentiment) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sentiments WHERE post_id = $1", sent.PostID); err != nil {
		_ = tx.Rollback()
		return err
	}
	err = tx.QueryRow(`INSERT INTO sentiments
		(post_id, score, label, confidence, positive, neutral, negative, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		sent.PostID, sent.Score, sent.Label, sent.Confidence,
		sent.Positive, sent.Neutral, sent.Negative, sent.Model).Scan(&sent.ID)
	if err != nil {
		_ = tx.Rollback()
		slog.Error("DB Insert Error", "table", "sentiments", "err", err)
		return err
	}
	return tx.Commit()
}

// AddComment добавляет комментарий к посту
func (s *PostgresStorage) AddComment(c *models.Comment) error {
	err := s.DB.QueryRow(`INSERT INTO comments
		(post_id, author, content, timestamp, sentiment_label)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.PostID, c.Author, c.Content, c.Timestamp, c.SentimentLabel).Scan(&c.ID)
	if err != nil {
		slog.Error("DB Insert Error", "table", "comments", "err", err)
	}
	return err
}

// ClearAll атомарно очищает все таблицы и сбрасывает счётчики id.
// Возвращает количество строк в каждой таблице до очистки.
func (s *PostgresStorage) ClearAll() (map[string]int, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, table := range []string{"posts", "sentiments", "comments", "execution_logs"} {
		var n int
		if err := tx.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		counts[table] = n
	}
	if _, err := tx.Exec("TRUNCATE posts, sentiments, comments, execution_logs RESTART IDENTITY CASCADE"); err != nil {
		_ = tx.Rollback()
		slog.Error("Error clearing tables", "err", err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	slog.Info("Cleared all tables", "counts", fmt.Sprint(counts))
	return counts, nil
}

// AddExecutionLog добавляет запись аудита прогона
func (s *PostgresStorage) AddExecutionLog(e *models.ExecutionLog) error {
	err := s.DB.QueryRow(`INSERT INTO execution_logs
		(run_id, workflow, status, started_at, duration_seconds, error, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.RunID, e.Workflow, e.Status, e.StartedAt, e.DurationSeconds,
		e.Error, nullableJSON(e.Metadata)).Scan(&e.ID)
	if err != nil {
		slog.Error("DB Insert Error", "table", "execution_logs", "err", err)
	}
	return err
}

// LatestExecutionLog возвращает последний прогон, nil если журнал пуст
func (s *PostgresStorage) LatestExecutionLog() (*models.ExecutionLog, error) {
	var e models.ExecutionLog
	var meta []byte
	err := s.DB.QueryRow(`SELECT id, run_id, workflow, status, started_at,
		duration_seconds, error, metadata, created_at
		FROM execution_logs ORDER BY started_at DESC, id DESC LIMIT 1`).
		Scan(&e.ID, &e.RunID, &e.Workflow, &e.Status, &e.StartedAt,
			&e.DurationSeconds, &e.Error, &meta, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Metadata = meta
	return &e, nil
}

// SummaryStats считает итоговые числа по окну. Средняя тональность
// считается глобально, по всем sentiment-строкам - так делает дашборд.
func (s *PostgresStorage) SummaryStats(w models.Window) (*models.SummaryStats, error) {
	b := windowConditions(w)
	var st models.SummaryStats
	err := s.DB.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(p.likes), 0), COALESCE(SUM(p.shares), 0),
		COALESCE(SUM(p.comments_count), 0),
		COALESCE(AVG(p.likes), 0), COALESCE(AVG(p.comments_count), 0)
		FROM posts p`+b.where(), b.args...).
		Scan(&st.TotalPosts, &st.TotalLikes, &st.TotalShares,
			&st.TotalCommentsCount, &st.AvgLikes, &st.AvgComments)
	if err != nil {
		slog.Error("Error computing summary stats", "err", err)
		return nil, err
	}

	err = s.DB.QueryRow("SELECT COUNT(*) FROM comments c JOIN posts p ON p.id = c.post_id"+b.where(), b.args...).
		Scan(&st.TotalComments)
	if err != nil {
		return nil, err
	}

	if err := s.DB.QueryRow("SELECT COALESCE(AVG(score), 0) FROM sentiments").Scan(&st.AvgSentiment); err != nil {
		return nil, err
	}
	return &st, nil
}

// DailyActivity возвращает посты и комментарии по дням за последние days дней,
// дни без активности заполняются нулями
func (s *PostgresStorage) DailyActivity(days int) ([]models.DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)

	postCounts, err := s.countByDay("SELECT to_char(date_trunc('day', timestamp), 'YYYY-MM-DD'), COUNT(*) FROM posts WHERE timestamp >= $1 GROUP BY 1", since)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.countByDay("SELECT to_char(date_trunc('day', timestamp), 'YYYY-MM-DD'), COUNT(*) FROM comments WHERE timestamp >= $1 GROUP BY 1", since)
	if err != nil {
		return nil, err
	}

	series := make([]models.DailyActivity, 0, days)
	for d := 0; d < days; d++ {
		date := since.AddDate(0, 0, d).Format("2006-01-02")
		series = append(series, models.DailyActivity{
			Date:     date,
			Posts:    postCounts[date],
			Comments: commentCounts[date],
		})
	}
	return series, nil
}

func (s *PostgresStorage) countByDay(query string, since time.Time) (map[string]int, error) {
	rows, err := s.DB.Query(query, since)
	if err != nil {
		slog.Error("Error fetching daily counts", "err", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, err
		}
		counts[date] = n
	}
	return counts, rows.Err()
}

// MediaTypeCounts - гистограмма постов по типам контента в окне
func (s *PostgresStorage) MediaTypeCounts(w models.Window) ([]models.MediaTypeCount, error) {
	b := windowConditions(w)
	rows, err := s.DB.Query("SELECT p.media_type, COUNT(*) FROM posts p"+b.where()+
		" GROUP BY p.media_type ORDER BY COUNT(*) DESC, p.media_type", b.args...)
	if err != nil {
		slog.Error("Error fetching media type counts", "err", err)
		return nil, err
	}
	defer rows.Close()

	var counts []models.MediaTypeCount
	for rows.Next() {
		var mc models.MediaTypeCount
		if err := rows.Scan(&mc.MediaType, &mc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}

// SentimentCounts - количество постов по категориям тональности.
// Пороги классификации: > 0.05 positive, < -0.05 negative, иначе neutral.
func (s *PostgresStorage) SentimentCounts(w models.Window) (*models.SentimentCounts, error) {
	b := windowConditions(w)
	var c models.SentimentCounts
	err := s.DB.QueryRow(`SELECT
		COUNT(*) FILTER (WHERE s.score > 0.05),
		COUNT(*) FILTER (WHERE s.score >= -0.05 AND s.score <= 0.05),
		COUNT(*) FILTER (WHERE s.score < -0.05)
		FROM sentiments s JOIN posts p ON p.id = s.post_id`+b.where(), b.args...).
		Scan(&c.Positive, &c.Neutral, &c.Negative)
	if err != nil {
		slog.Error("Error computing sentiment counts", "err", err)
		return nil, err
	}
	return &c, nil
}

// AverageSentiment - средняя оценка тональности по окну (gauge)
func (s *PostgresStorage) AverageSentiment(w models.Window) (float64, error) {
	b := windowConditions(w)
	var avg float64
	err := s.DB.QueryRow(`SELECT COALESCE(AVG(s.score), 0)
		FROM sentiments s JOIN posts p ON p.id = s.post_id`+b.where(), b.args...).Scan(&avg)
	if err != nil {
		slog.Error("Error computing average sentiment", "err", err)
		return 0, err
	}
	return avg, nil
}

// DailySentiment - средняя оценка тональности по дням окна
func (s *PostgresStorage) DailySentiment(w models.Window) ([]models.DailyValue, error) {
	b := windowConditions(w)
	return s.dailyValues(`SELECT to_char(date_trunc('day', p.timestamp), 'YYYY-MM-DD'), AVG(s.score)
		FROM sentiments s JOIN posts p ON p.id = s.post_id`+b.where()+
		" GROUP BY 1 ORDER BY 1", b.args...)
}

// DailyEngagement - средний engagement постов по дням окна
func (s *PostgresStorage) DailyEngagement(w models.Window) ([]models.DailyValue, error) {
	b := windowConditions(w)
	return s.dailyValues(`SELECT to_char(date_trunc('day', p.timestamp), 'YYYY-MM-DD'),
		AVG(p.likes + p.comments_count + p.shares) FROM posts p`+b.where()+
		" GROUP BY 1 ORDER BY 1", b.args...)
}

func (s *PostgresStorage) dailyValues(query string, args ...interface{}) ([]models.DailyValue, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		slog.Error("Error fetching daily values", "err", err)
		return nil, err
	}
	defer rows.Close()

	var values []models.DailyValue
	for rows.Next() {
		var v models.DailyValue
		if err := rows.Scan(&v.Date, &v.Value); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// SentimentByMediaType - разбивка категорий тональности по типам контента
func (s *PostgresStorage) SentimentByMediaType(w models.Window) ([]models.MediaSentimentCounts, error) {
	b := windowConditions(w)
	rows, err := s.DB.Query(`SELECT p.media_type,
		COUNT(*) FILTER (WHERE s.score > 0.05),
		COUNT(*) FILTER (WHERE s.score >= -0.05 AND s.score <= 0.05),
		COUNT(*) FILTER (WHERE s.score < -0.05)
		FROM sentiments s JOIN posts p ON p.id = s.post_id`+b.where()+
		" GROUP BY p.media_type ORDER BY p.media_type", b.args...)
	if err != nil {
		slog.Error("Error computing sentiment by media type", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.MediaSentimentCounts
	for rows.Next() {
		var mc models.MediaSentimentCounts
		if err := rows.Scan(&mc.MediaType, &mc.Positive, &mc.Neutral, &mc.Negative); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}

// TopPostsByEngagement - топ-N постов окна по сумме счётчиков
func (s *PostgresStorage) TopPostsByEngagement(w models.Window, limit int) ([]models.PostWithSentiment, error) {
	b := windowConditions(w)
	query := "SELECT " + postColumns + ", s.score, s.label FROM posts p LEFT JOIN sentiments s ON s.post_id = p.id" +
		b.where() +
		fmt.Sprintf(" ORDER BY (p.likes + p.comments_count + p.shares) DESC, p.id LIMIT $%d", b.next())
	args := append(b.args, limit)

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		slog.Error("Error fetching top posts", "err", err)
		return nil, err
	}
	defer rows.Close()

	var posts []models.PostWithSentiment
	for rows.Next() {
		post, err := scanPostWithSentiment(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// EngagementScatter - точки лайки/комментарии, по одной на пост окна
func (s *PostgresStorage) EngagementScatter(w models.Window) ([]models.ScatterPoint, error) {
	b := windowConditions(w)
	rows, err := s.DB.Query("SELECT p.post_id, p.likes, p.comments_count FROM posts p"+
		b.where()+" ORDER BY p.timestamp", b.args...)
	if err != nil {
		slog.Error("Error fetching scatter points", "err", err)
		return nil, err
	}
	defer rows.Close()

	var points []models.ScatterPoint
	for rows.Next() {
		var pt models.ScatterPoint
		if err := rows.Scan(&pt.PostID, &pt.Likes, &pt.Comments); err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return points, rows.Err()
}

// ContentRows - содержимое постов окна для контент-аналитики
func (s *PostgresStorage) ContentRows(w models.Window) ([]models.ContentRow, error) {
	b := windowConditions(w)
	rows, err := s.DB.Query("SELECT p.content, p.hashtags, p.timestamp FROM posts p"+
		b.where()+" ORDER BY p.timestamp", b.args...)
	if err != nil {
		slog.Error("Error fetching content rows", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []models.ContentRow
	for rows.Next() {
		var r models.ContentRow
		if err := rows.Scan(&r.Content, pq.Array(&r.Hashtags), &r.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// PostsWithoutSentiment - посты без sentiment-строки (для batch-оценки)
func (s *PostgresStorage) PostsWithoutSentiment(limit int) ([]models.Post, error) {
	rows, err := s.DB.Query(`SELECT p.id, p.post_id, p.platform, p.author, p.content,
		p.timestamp, p.likes, p.comments_count, p.shares, p.url, p.media_type,
		p.hashtags, p.created_at, p.updated_at
		FROM posts p LEFT JOIN sentiments s ON s.post_id = p.id
		WHERE s.id IS NULL ORDER BY p.timestamp DESC LIMIT $1`, limit)
	if err != nil {
		slog.Error("Error fetching unscored posts", "err", err)
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		var url sql.NullString
		if err := rows.Scan(&post.ID, &post.PostID, &post.Platform, &post.Author,
			&post.Content, &post.Timestamp, &post.Likes, &post.CommentsCount,
			&post.Shares, &url, &post.MediaType, pq.Array(&post.Hashtags),
			&post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		post.URL = url.String
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
