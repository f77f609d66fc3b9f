package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MosinFAM/social-analytics/internal/service"

	"github.com/gin-gonic/gin"
)

// Единый формат тела ошибки API
func (h *Handler) respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleError разводит ошибки по таксономии: валидация и ошибки импорта -
// 400 с причиной, остальное - 500 без внутренних деталей (они в логе)
func (h *Handler) handleError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		h.respondError(c, http.StatusBadRequest, vErr.Message)
		return
	}
	var iErr *service.ImportError
	if errors.As(err, &iErr) {
		h.respondError(c, http.StatusBadRequest, iErr.Message)
		return
	}
	slog.Error("Request failed", "path", c.Request.URL.Path, "err", err)
	h.respondError(c, http.StatusInternalServerError, "internal server error")
}
