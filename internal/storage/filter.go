package storage

import (
	"fmt"
	"strings"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// condBuilder накапливает условия WHERE. Значения никогда не попадают
// в текст запроса - только плейсхолдеры $n, значения идут параметрами.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// add добавляет условие; каждый '?' в expr заменяется на следующий $n
func (b *condBuilder) add(expr string, vals ...interface{}) {
	for _, v := range vals {
		b.args = append(b.args, v)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, expr)
}

// where рендерит накопленные условия, пустая строка если условий нет
func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next возвращает номер следующего плейсхолдера (для LIMIT/OFFSET)
func (b *condBuilder) next() int {
	return len(b.args) + 1
}

// buildPostConditions переводит фильтр списка постов в условия.
// Фильтр приходит из сервисного слоя уже нормализованным.
func buildPostConditions(f models.PostFilter) *condBuilder {
	b := &condBuilder{}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		b.add("(p.content ILIKE ? OR p.author ILIKE ?)", pattern, pattern)
	}
	if f.StartDate != nil {
		b.add("p.timestamp >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		b.add("p.timestamp <= ?", *f.EndDate)
	}
	if f.MediaType != "" {
		b.add("p.media_type = ?", f.MediaType)
	}
	if f.Sentiment != "" {
		b.add("s.label = ?", f.Sentiment)
	}
	return b
}

// orderClause строит ORDER BY только из allow-list колонок.
// Неизвестный sort_by откатывается на timestamp.
func orderClause(sortBy, sortOrder string) string {
	col, ok := models.SortColumns[sortBy]
	if !ok {
		col = models.SortColumns["timestamp"]
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	// NULLS LAST, чтобы посты без sentiment не всплывали при сортировке по score
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, p.id %s", col, dir, dir)
}

// windowConditions - условия окна [start, end] для агрегатных запросов
func windowConditions(w models.Window) *condBuilder {
	b := &condBuilder{}
	b.add("p.timestamp >= ?", w.Start)
	b.add("p.timestamp <= ?", w.End)
	return b
}
