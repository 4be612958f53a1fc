package httptransport

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/annadenisova/crypto-query-service/internal/answer"
	"github.com/labstack/echo/v4"
)

// HTTP-граница ядра: один запрос — одна строка ответа. Формат выбирается
// заголовком Accept и отображается на трёхвариантный enum генератора.

// QueryService — абстракция над генератором ответов
type QueryService interface {
	Generate(ctx context.Context, prompt string, format answer.Format) string
}

// AnswerHandler — HTTP-handler запросов на естественном языке
type AnswerHandler struct {
	logger  *slog.Logger
	svc     QueryService
	timeout time.Duration
}

func NewAnswerHandler(logger *slog.Logger, svc QueryService, timeout time.Duration) *AnswerHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	// Задаём таймаут по умолчанию, если он не задан
	if timeout <= 0 {
		timeout = time.Second * 25
	}
	return &AnswerHandler{
		logger:  logger,
		svc:     svc,
		timeout: timeout,
	}
}

func (h *AnswerHandler) RegisterRoutes(r interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}) {
	// Регистрируем маршруты
	r.GET("/answer", h.Answer)
	r.GET("/healthz", h.Health)
}

func (h *AnswerHandler) Answer(c echo.Context) error {
	prompt := strings.TrimSpace(c.QueryParam("q"))
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "empty_prompt",
		})
	}

	format := formatFromAccept(c.Request().Header.Get(echo.HeaderAccept))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result := h.svc.Generate(ctx, prompt, format)

	switch format {
	case answer.FormatJSON:
		return c.JSONBlob(http.StatusOK, []byte(result))
	case answer.FormatMarkdown:
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(result))
	default:
		return c.String(http.StatusOK, result)
	}
}

func (h *AnswerHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// formatFromAccept — отображение заголовка Accept на формат ядра;
// всё нераспознанное — plain text
func formatFromAccept(accept string) answer.Format {
	switch {
	case strings.Contains(accept, "application/json"):
		return answer.FormatJSON
	case strings.Contains(accept, "text/markdown"):
		return answer.FormatMarkdown
	default:
		return answer.FormatPlain
	}
}
