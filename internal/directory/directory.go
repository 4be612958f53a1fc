package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/annadenisova/crypto-query-service/internal/domain"
	"github.com/annadenisova/crypto-query-service/internal/pkg/clock"
)

// Справочник монет: индексы по символу/id/имени плюс fuzzy-поиск по символам.

// maxFuzzyDistance - расстояние 3 и больше считаем ложным совпадением
const maxFuzzyDistance = 3

// ListFetcher — источник полного списка монет
type ListFetcher interface {
	CoinList(ctx context.Context) ([]domain.Coin, error)
}

type index struct {
	coins    []domain.Coin // порядок источника, по нему идёт fuzzy-скан
	bySymbol map[string]domain.Coin
	byID     map[string]domain.Coin
	byName   map[string]domain.Coin
	loadedAt time.Time
}

// Directory - процесс-широкий справочник известных монет.
// Индекс заменяется целиком и атомарно: частично перестроенное
// состояние снаружи не видно.
type Directory struct {
	fetcher  ListFetcher
	ttl      time.Duration
	minCoins int
	clk      clock.Clock
	logger   *slog.Logger

	mu  sync.RWMutex
	idx index
}

// New — конструктор справочника; minCoins — нижняя граница валидного списка
func New(fetcher ListFetcher, ttl time.Duration, minCoins int, clk clock.Clock, logger *slog.Logger) *Directory {
	return &Directory{
		fetcher:  fetcher,
		ttl:      ttl,
		minCoins: minCoins,
		clk:      clk,
		logger:   logger,
	}
}

// Load — загружает полный список монет и перестраивает индексы.
// No-op, пока прошлая загрузка младше TTL и индекс больше нижней границы
// (усечённый ответ не должен считаться валидным справочником).
func (d *Directory) Load(ctx context.Context) error {
	now := d.clk.Now()

	d.mu.RLock()
	fresh := !d.idx.loadedAt.IsZero() &&
		now.Sub(d.idx.loadedAt) < d.ttl &&
		len(d.idx.coins) > d.minCoins
	d.mu.RUnlock()
	if fresh {
		return nil
	}

	coins, err := d.fetcher.CoinList(ctx)
	if err != nil {
		d.logger.Error("coin list fetch failed", slog.String("error", err.Error()))
		return fmt.Errorf("loading coin list: %w", err)
	}

	next := index{
		coins:    coins,
		bySymbol: make(map[string]domain.Coin, len(coins)),
		byID:     make(map[string]domain.Coin, len(coins)),
		byName:   make(map[string]domain.Coin, len(coins)),
		loadedAt: now,
	}
	for _, c := range coins {
		// first-write-wins: дубликаты из хвоста списка отбрасываем
		if k := strings.ToLower(c.Symbol); k != "" {
			if _, ok := next.bySymbol[k]; !ok {
				next.bySymbol[k] = c
			}
		}
		if k := strings.ToLower(c.ID); k != "" {
			if _, ok := next.byID[k]; !ok {
				next.byID[k] = c
			}
		}
		if k := strings.ToLower(c.Name); k != "" {
			if _, ok := next.byName[k]; !ok {
				next.byName[k] = c
			}
		}
	}

	d.mu.Lock()
	d.idx = next
	d.mu.Unlock()

	d.logger.Info("coin directory loaded", slog.Int("coins", len(coins)))
	return nil
}

// Find — разрешает ссылку на монету: алиасы, точные индексы, затем
// линейный fuzzy-скан по символам с порогом расстояния.
func (d *Directory) Find(reference string) (domain.Coin, bool) {
	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref == "" {
		return domain.Coin{}, false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if id, ok := aliases[ref]; ok {
		if coin, ok := d.idx.byID[id]; ok {
			return coin, true
		}
	}
	if coin, ok := d.idx.bySymbol[ref]; ok {
		return coin, true
	}
	if coin, ok := d.idx.byID[ref]; ok {
		return coin, true
	}
	if coin, ok := d.idx.byName[ref]; ok {
		return coin, true
	}

	// fuzzy: при равных расстояниях побеждает первая встреченная монета,
	// порядок обхода — порядок списка провайдера
	best := maxFuzzyDistance
	var bestCoin domain.Coin
	found := false
	for _, c := range d.idx.coins {
		dist := levenshtein.ComputeDistance(ref, strings.ToLower(c.Symbol))
		if dist < best {
			best = dist
			bestCoin = c
			found = true
		}
	}
	return bestCoin, found
}

// Size — количество монет в текущем индексе
func (d *Directory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.idx.coins)
}
