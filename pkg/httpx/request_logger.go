package httpx

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/hermes_receiver/internal/ports"
)

// RequestLogger — лог HTTP-запросов. request_id и trace_id добавляет сам логгер из контекста.
// Служебные пути (probe, scrape) не логируются, кроме ответов 5xx.
func RequestLogger(log ports.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		if _, ok := skipped[path]; ok && status < 500 {
			return
		}

		logf := log.Infof
		if status >= 500 {
			logf = log.Errorf
		}
		logf(c.Request.Context(), "request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method, path, status, c.ClientIP(), time.Since(start), c.Writer.Size())
	}
}
