package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/annadenisova/crypto-query-service/internal/errors"
	"github.com/annadenisova/crypto-query-service/internal/pkg/clock"
)

// Кэш HTTP-ответов с TTL: ключ — URL запроса как есть, без нормализации.

// Doer — минимальный интерфейс http.Client, чтобы тесты могли подменить транспорт
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// HTTPCache - time-bounded мемоизация GET-запросов к провайдеру.
// Записи не вытесняются: протухшая запись перезаписывается следующим
// успешным запросом по тому же ключу.
type HTTPCache struct {
	client    Doer
	ttl       time.Duration
	userAgent string
	clk       clock.Clock

	mu      sync.RWMutex
	entries map[string]entry
}

// New — конструктор кэша с инжектируемыми транспортом и часами
func New(client Doer, ttl time.Duration, userAgent string, clk clock.Clock) *HTTPCache {
	return &HTTPCache{
		client:    client,
		ttl:       ttl,
		userAgent: userAgent,
		clk:       clk,
		entries:   make(map[string]entry),
	}
}

// Fetch — возвращает тело ответа по URL: из кэша, пока запись свежая,
// иначе ходит к провайдеру и запоминает результат на ttl.
// Одновременные промахи по одному ключу оба уходят в сеть: побеждает
// последняя запись, оба вызова получают валидный ответ.
func (c *HTTPCache) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	now := c.clk.Now()

	c.mu.RLock()
	e, ok := c.entries[rawURL]
	c.mu.RUnlock()
	if ok && e.expiresAt.After(now) {
		return e.payload, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUpstream, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", apperrors.ErrUpstream, err)
	}

	c.mu.Lock()
	c.entries[rawURL] = entry{payload: payload, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return payload, nil
}

// Len — количество записей (включая протухшие), для логов и тестов
func (c *HTTPCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
