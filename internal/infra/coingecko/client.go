package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/config"
	"github.com/annadenisova/crypto-query-service/internal/domain"
	apperrors "github.com/annadenisova/crypto-query-service/internal/errors"
)

// Клиент API CoinGecko: сборка URL и приведение ответов к domain-типам.
// Запросы цен и истории ходят через кэш ответов; список монет — напрямую,
// его свежестью управляет справочник.

// historyDateLayout - формат даты, который ждёт endpoint /coins/{id}/history
const historyDateLayout = "02-01-2006"

// Fetcher — кэширующий слой для GET-запросов
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Client struct {
	cfg        config.CoinGeckoConfig
	httpClient *http.Client
	prices     Fetcher
}

// coinListRow — структура для парсинга ответа /coins/list
type coinListRow struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// marketRow — структура для парсинга ответа /coins/markets
type marketRow struct {
	ID             string   `json:"id"`
	CurrentPrice   *float64 `json:"current_price"`
	MarketCap      *float64 `json:"market_cap"`
	TotalVolume    *float64 `json:"total_volume"`
	PriceChange24h *float64 `json:"price_change_percentage_24h"`
}

// historyResponse — структура для парсинга ответа /coins/{id}/history
type historyResponse struct {
	ID         string `json:"id"`
	MarketData *struct {
		CurrentPrice map[string]float64 `json:"current_price"`
		MarketCap    map[string]float64 `json:"market_cap"`
		TotalVolume  map[string]float64 `json:"total_volume"`
	} `json:"market_data"`
}

// NewClient - создаёт клиента; prices — кэш для price/history endpoint'ов
func NewClient(cfg config.CoinGeckoConfig, prices Fetcher) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		prices:     prices,
	}
}

// CoinList — полный список монет провайдера (id, symbol, name)
func (c *Client) CoinList(ctx context.Context) ([]domain.Coin, error) {
	u, err := c.endpoint("coins", "list")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUpstream, resp.Status)
	}

	var rows []coinListRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding coin list: %w", err)
	}

	coins := make([]domain.Coin, 0, len(rows))
	for _, r := range rows {
		coins = append(coins, domain.Coin{ID: r.ID, Symbol: r.Symbol, Name: r.Name})
	}
	return coins, nil
}

// Markets — текущие цены и рыночные метрики для набора монет в одной
// валюте. При отказе основного endpoint'а пробует simple/price и приводит
// его ответ к той же форме.
func (c *Client) Markets(ctx context.Context, ids []string, vsCurrency string) (map[string]domain.PriceInfo, error) {
	infos, err := c.markets(ctx, ids, vsCurrency)
	if err == nil {
		return infos, nil
	}

	raw, ferr := c.SimplePrices(ctx, ids, []string{vsCurrency})
	if ferr != nil {
		return nil, fmt.Errorf("markets: %v; simple price fallback: %w", err, ferr)
	}
	return ReshapeSimple(raw, vsCurrency), nil
}

func (c *Client) markets(ctx context.Context, ids []string, vsCurrency string) (map[string]domain.PriceInfo, error) {
	u, err := c.endpoint("coins", "markets")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("vs_currency", strings.ToLower(vsCurrency))
	q.Set("ids", strings.Join(ids, ","))
	q.Set("price_change_percentage", "24h")
	u.RawQuery = q.Encode()

	payload, err := c.prices.Fetch(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("fetching markets: %w", err)
	}

	var rows []marketRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decoding markets: %w", err)
	}

	out := make(map[string]domain.PriceInfo, len(rows))
	for _, r := range rows {
		out[r.ID] = domain.PriceInfo{
			Price:     r.CurrentPrice,
			MarketCap: r.MarketCap,
			Volume24h: r.TotalVolume,
			Change24h: r.PriceChange24h,
		}
	}
	return out, nil
}

// SimplePrices — упрощённый endpoint цен: id → валюта/метрика → значение.
// Используется как fallback и для конверсий через USD.
func (c *Client) SimplePrices(ctx context.Context, ids, currencies []string) (map[string]map[string]float64, error) {
	u, err := c.endpoint("simple", "price")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.ToLower(strings.Join(currencies, ",")))
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")
	u.RawQuery = q.Encode()

	payload, err := c.prices.Fetch(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("fetching simple prices: %w", err)
	}

	var out map[string]map[string]float64
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding simple prices: %w", err)
	}
	return out, nil
}

// History — снимок рыночных данных по монете на конкретную дату
func (c *Client) History(ctx context.Context, id string, date time.Time) (domain.HistoricalData, error) {
	u, err := c.endpoint("coins", id, "history")
	if err != nil {
		return domain.HistoricalData{}, err
	}
	q := u.Query()
	q.Set("date", date.Format(historyDateLayout))
	q.Set("localization", "false")
	u.RawQuery = q.Encode()

	payload, err := c.prices.Fetch(ctx, u.String())
	if err != nil {
		return domain.HistoricalData{}, fmt.Errorf("fetching history: %w", err)
	}

	var resp historyResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.HistoricalData{}, fmt.Errorf("decoding history: %w", err)
	}

	var hd domain.HistoricalData
	// на дату раньше листинга провайдер отвечает без market_data
	if resp.MarketData != nil {
		hd.Prices = resp.MarketData.CurrentPrice
		hd.MarketCaps = resp.MarketData.MarketCap
		hd.Volumes = resp.MarketData.TotalVolume
	}
	return hd, nil
}

// ReshapeSimple — приводит ответ simple/price к форме Markets для одной валюты
func ReshapeSimple(raw map[string]map[string]float64, currency string) map[string]domain.PriceInfo {
	cur := strings.ToLower(currency)
	out := make(map[string]domain.PriceInfo, len(raw))
	for id, fields := range raw {
		var info domain.PriceInfo
		if v, ok := fields[cur]; ok {
			price := v
			info.Price = &price
		}
		if v, ok := fields[cur+"_market_cap"]; ok {
			mcap := v
			info.MarketCap = &mcap
		}
		if v, ok := fields[cur+"_24h_vol"]; ok {
			vol := v
			info.Volume24h = &vol
		}
		if v, ok := fields[cur+"_24h_change"]; ok {
			chg := v
			info.Change24h = &chg
		}
		out[id] = info
	}
	return out
}

func (c *Client) endpoint(parts ...string) (*url.URL, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path, _ = url.JoinPath(u.Path, parts...)
	return u, nil
}

func (c *Client) userAgent() string {
	if c.cfg.UserAgent != "" {
		return c.cfg.UserAgent
	}
	return "crypto-query-service/1.0"
}
