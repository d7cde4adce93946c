package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
	"github.com/Gunvolt24/hermes_receiver/pkg/httpx"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Handler struct {
	service ports.MessageReadService
	status  ports.ReceiverStatus
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — timeout <= 0 означает без собственного таймаута (только контекст запроса).
func NewHandler(service ports.MessageReadService, status ports.ReceiverStatus, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, status: status, log: log, timeout: timeout}
}

// NewRouter — otelServiceName пустой, если трейсинг выключен.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log, "/ping", "/metrics", "/status"))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/status", h.getStatus)

	r.GET("/messages", h.listRecentMessages)
	r.GET("/messages/:id", h.getMessageByID)

	return r
}

type statusResponse struct {
	Topic       string `json:"topic"`
	ContentType string `json:"content_type"`
	State       string `json:"state"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Partition   int       `json:"partition"`
	Offset      int64     `json:"offset"`
	PublishedAt time.Time `json:"published_at"`
	ReadAt      time.Time `json:"read_at"`
	// Content — уже проверенный JSON из конверта, отдаём как есть.
	Content rawJSON `json:"content"`
}

type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func toResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		Topic:       m.Topic,
		Partition:   m.Partition,
		Offset:      m.Offset,
		PublishedAt: m.PublishedAt,
		ReadAt:      m.ReadAt,
		Content:     rawJSON(m.Content),
	}
}

func (h *Handler) getStatus(c *gin.Context) {
	topic := h.status.Topic()
	state := "active"
	if h.status.Stopped() {
		state = "stopped"
	}
	c.JSON(http.StatusOK, statusResponse{
		Topic:       topic.QualifiedName(),
		ContentType: string(topic.ContentType),
		State:       state,
	})
}

func (h *Handler) getMessageByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	msg, err := h.service.GetMessage(ctx, id)
	if err != nil {
		h.log.Errorf(ctx, "GetMessage failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(msg))
}

func (h *Handler) listRecentMessages(c *gin.Context) {
	page := httpx.ParsePage(c, defaultPageLimit, maxPageLimit)

	ctx, cancel := h.requestContext(c)
	defer cancel()

	msgs, err := h.service.RecentMessages(ctx, page.Limit, page.Offset)
	if err != nil {
		h.log.Errorf(ctx, "RecentMessages failed limit=%d offset=%d err=%v", page.Limit, page.Offset, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
