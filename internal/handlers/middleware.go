package handlers

import (
	"bytes"
	"net/http"

	"github.com/MosinFAM/social-analytics/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID проставляет X-Request-ID на каждый запрос
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

type cachingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheMiddleware отдаёт GET-ответы из кэша и складывает туда успешные
func CacheMiddleware(c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}
		key := cache.Key(ctx.Request.Method, ctx.Request.URL.Path, ctx.Request.URL.RawQuery)
		if data, status, ok := c.Get(key); ok {
			ctx.Data(status, "application/json; charset=utf-8", data)
			ctx.Abort()
			return
		}

		writer := &cachingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = writer
		ctx.Next()

		if writer.Status() == http.StatusOK {
			c.Set(key, writer.Status(), writer.buf.Bytes())
		}
	}
}
