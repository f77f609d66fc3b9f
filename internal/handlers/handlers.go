package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MosinFAM/social-analytics/internal/cache"
	"github.com/MosinFAM/social-analytics/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler держит сервисы и кэш ответов
type Handler struct {
	Analytics *service.AnalyticsService
	Importer  *service.ImportService
	Cache     *cache.Cache
	Ping      func() error // проверка соединения с БД для /healthz
}

func New(analytics *service.AnalyticsService, importer *service.ImportService, c *cache.Cache) *Handler {
	return &Handler{Analytics: analytics, Importer: importer, Cache: c}
}

// RegisterRoutes вешает все маршруты API на роутер
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	cached := api.Group("", CacheMiddleware(h.Cache))
	{
		cached.GET("/summary", h.GetSummary)
		cached.GET("/sentiment", h.GetSentiment)
		cached.GET("/engagement", h.GetEngagement)
		cached.GET("/content", h.GetContent)
		cached.GET("/posts", h.GetPosts)
		cached.GET("/posts/:post_id/comments", h.GetComments)
	}
	api.GET("/export", h.GetExport)
	api.POST("/import", h.PostImport)

	r.GET("/healthz", h.GetHealth)
}

// GetSummary - сводка дашборда
func (h *Handler) GetSummary(c *gin.Context) {
	w, err := service.ParseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp, err := h.Analytics.Summary(w)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSentiment - агрегат тональности по окну
func (h *Handler) GetSentiment(c *gin.Context) {
	w, err := service.ParseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp, err := h.Analytics.Sentiment(w)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetEngagement - агрегат вовлечённости по окну
func (h *Handler) GetEngagement(c *gin.Context) {
	w, err := service.ParseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp, err := h.Analytics.Engagement(w)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetContent - контент-аналитика по окну
func (h *Handler) GetContent(c *gin.Context) {
	w, err := service.ParseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp, err := h.Analytics.Content(w)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func listParams(c *gin.Context) service.ListParams {
	return service.ListParams{
		Search:    c.Query("search"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		MediaType: c.Query("media_type"),
		Sentiment: c.Query("sentiment"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      c.Query("page"),
		PerPage:   c.Query("per_page"),
	}
}

// GetPosts - страница постов с фильтрами и сортировкой
func (h *Handler) GetPosts(c *gin.Context) {
	resp, err := h.Analytics.ListPosts(listParams(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetExport - выгрузка отфильтрованных постов в CSV
func (h *Handler) GetExport(c *gin.Context) {
	filename := service.ExportFilename(time.Now().UTC())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.Analytics.ExportCSV(c.Writer, listParams(c)); err != nil {
		c.Header("Content-Disposition", "")
		h.handleError(c, err)
	}
}

// GetComments - комментарии поста; неизвестный пост даёт пустой список
func (h *Handler) GetComments(c *gin.Context) {
	comments, err := h.Analytics.Comments(c.Param("post_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// PostImport - загрузка батча постов (multipart form).
// Успешный импорт полностью сбрасывает кэш ответов.
func (h *Handler) PostImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "missing file field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		h.handleError(c, err)
		return
	}

	platform := c.DefaultPostForm("platform", "instagram")
	clearExisting := true
	switch strings.ToLower(c.DefaultPostForm("clear_existing", "true")) {
	case "false", "0":
		clearExisting = false
	}

	result, err := h.Importer.ImportFile(fileHeader.Filename, data, platform, clearExisting)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.Cache.Clear()
	c.JSON(http.StatusOK, result)
}

// GetHealth - проверка живости сервиса и соединения с БД
func (h *Handler) GetHealth(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(); err != nil {
			h.respondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
