package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/MosinFAM/social-analytics/internal/models"
)

// Лимиты частотных таблиц
const (
	TopHashtags = 20
	TopKeywords = 15
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	keywordPattern = regexp.MustCompile(`[a-z]{4,}`)
)

// Служебные слова, исключаемые из частот ключевых слов
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "have": true, "will": true,
	"from": true, "your": true, "been": true, "were": true, "they": true,
	"them": true, "what": true, "when": true, "where": true, "just": true,
	"like": true, "more": true, "some": true, "very": true, "really": true,
	"about": true, "would": true, "could": true, "there": true, "their": true,
	"which": true,
}

// ExtractHashtags достаёт хэштеги из текста: # и следующие за ним
// word-символы. Регистр и дубликаты сохраняются в порядке появления.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := []string{}
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// ExtractKeywords достаёт токены из 4+ латинских букв, в нижнем
// регистре, без служебных слов
func ExtractKeywords(text string) []string {
	words := keywordPattern.FindAllString(strings.ToLower(text), -1)
	keywords := []string{}
	for _, w := range words {
		if !stopWords[w] {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// Элемент частотной таблицы
type FrequencyItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// topFrequencies сортирует частоты по убыванию, при равенстве -
// лексикографически, чтобы срез топ-N был детерминированным
func topFrequencies(freq map[string]int, limit int) []FrequencyItem {
	items := make([]FrequencyItem, 0, len(freq))
	for v, n := range freq {
		items = append(items, FrequencyItem{Value: v, Count: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Value < items[j].Value
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Фиксированные границы гистограммы длин контента
var lengthBuckets = []struct {
	Label string
	Max   int
}{
	{"0-50", 50},
	{"51-100", 100},
	{"101-200", 200},
	{"201-500", 500},
	{"500+", -1},
}

// Ответ /api/content
type ContentResponse struct {
	Hashtags         []FrequencyItem `json:"hashtags"`
	Keywords         []FrequencyItem `json:"keywords"`
	Heatmap          [7][24]int      `json:"heatmap"`
	LengthHistogram  []FrequencyItem `json:"length_histogram"`
	AvgCaptionLength float64         `json:"avg_caption_length"`
	MostActiveDay    string          `json:"most_active_day"`
	MostActiveHour   int             `json:"most_active_hour"`
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Content строит контент-аналитику по окну: хэштеги, ключевые слова,
// heatmap публикаций (день недели x час, 0=воскресенье), длины контента.
func (s *AnalyticsService) Content(w models.Window) (*ContentResponse, error) {
	rows, err := s.Storage.ContentRows(w)
	if err != nil {
		return nil, err
	}

	resp := &ContentResponse{}
	hashtagFreq := map[string]int{}
	keywordFreq := map[string]int{}
	lengthCounts := make([]int, len(lengthBuckets))
	var lengthSum, withContent int

	for _, row := range rows {
		// хэштеги берём из колонки, при её пустоте - из текста;
		// группировка без учёта регистра
		tags := row.Hashtags
		if len(tags) == 0 {
			tags = ExtractHashtags(row.Content)
		}
		for _, tag := range tags {
			hashtagFreq[strings.ToLower(tag)]++
		}
		for _, kw := range ExtractKeywords(row.Content) {
			keywordFreq[kw]++
		}

		ts := row.Timestamp.UTC()
		resp.Heatmap[int(ts.Weekday())][ts.Hour()]++

		length := len([]rune(row.Content))
		for i, bucket := range lengthBuckets {
			if bucket.Max < 0 || length <= bucket.Max {
				lengthCounts[i]++
				break
			}
		}
		if row.Content != "" {
			lengthSum += length
			withContent++
		}
	}

	resp.Hashtags = topFrequencies(hashtagFreq, TopHashtags)
	resp.Keywords = topFrequencies(keywordFreq, TopKeywords)
	resp.LengthHistogram = make([]FrequencyItem, len(lengthBuckets))
	for i, bucket := range lengthBuckets {
		resp.LengthHistogram[i] = FrequencyItem{Value: bucket.Label, Count: lengthCounts[i]}
	}
	if withContent > 0 {
		resp.AvgCaptionLength = round1(float64(lengthSum) / float64(withContent))
	}

	day, hour := busiestCells(resp.Heatmap)
	resp.MostActiveDay = dayNames[day]
	resp.MostActiveHour = hour
	return resp, nil
}

// busiestCells ищет самый активный день недели и час. При равенстве
// выигрывает меньший индекс - детерминированный tie-break.
func busiestCells(heatmap [7][24]int) (day, hour int) {
	var dayTotals [7]int
	var hourTotals [24]int
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			dayTotals[d] += heatmap[d][h]
			hourTotals[h] += heatmap[d][h]
		}
	}
	for d := 1; d < 7; d++ {
		if dayTotals[d] > dayTotals[day] {
			day = d
		}
	}
	for h := 1; h < 24; h++ {
		if hourTotals[h] > hourTotals[hour] {
			hour = h
		}
	}
	return day, hour
}
