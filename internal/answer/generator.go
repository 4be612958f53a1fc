package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/domain"
	"github.com/annadenisova/crypto-query-service/internal/pkg/clock"
	"github.com/annadenisova/crypto-query-service/internal/query"
)

// Генератор ответов: разбирает запрос, разрешает монеты, достаёт цены
// и всегда отдаёт готовую к показу строку. Ошибки апстрима логируются
// и превращаются в общий текст, наружу детали не уходят.

// usdPivot - валюта-посредник: конверсия токен→токен всегда считается
// через USD, какую бы валюту ни просил пользователь
const usdPivot = "usd"

const isoDateLayout = "2006-01-02"

// Format - выходной формат ответа
type Format int

const (
	FormatPlain Format = iota
	FormatJSON
	FormatMarkdown
)

// Resolver — разрешение ссылок на монеты
type Resolver interface {
	Find(reference string) (domain.Coin, bool)
}

// MarketData — доступ к рыночным данным провайдера
type MarketData interface {
	Markets(ctx context.Context, ids []string, vsCurrency string) (map[string]domain.PriceInfo, error)
	SimplePrices(ctx context.Context, ids, currencies []string) (map[string]map[string]float64, error)
	History(ctx context.Context, id string, date time.Time) (domain.HistoricalData, error)
}

// Response - обёртка для JSON-формата
type Response struct {
	Prompt string `json:"prompt"`
	Result string `json:"result"`
}

type Generator struct {
	parser   *query.Parser
	resolver Resolver
	market   MarketData
	clk      clock.Clock
	logger   *slog.Logger
}

// NewGenerator — конструктор генератора ответов
func NewGenerator(resolver Resolver, market MarketData, logger *slog.Logger) *Generator {
	return &Generator{
		parser:   query.NewParser(resolver),
		resolver: resolver,
		market:   market,
		clk:      clock.NewRealClock(),
		logger:   logger,
	}
}

// NewGeneratorWithClock - конструктор для тестов с фиксированными часами
func NewGeneratorWithClock(resolver Resolver, market MarketData, clk clock.Clock, logger *slog.Logger) *Generator {
	g := NewGenerator(resolver, market, logger)
	g.clk = clk
	return g
}

// Generate — полный конвейер: текст → intent → данные → строка ответа
func (g *Generator) Generate(ctx context.Context, prompt string, format Format) string {
	parsed := g.parser.Parse(prompt)

	var lines []string
	switch q := parsed.(type) {
	case query.Conversion:
		lines = g.convert(ctx, q)
	case query.PriceLookup:
		if q.Date != "" {
			lines = g.historical(ctx, q)
		} else {
			lines = g.current(ctx, q)
		}
	}

	result := strings.Join(lines, "\n")
	switch format {
	case FormatMarkdown:
		return renderMarkdown(lines)
	case FormatJSON:
		b, err := json.Marshal(Response{Prompt: prompt, Result: result})
		if err != nil {
			g.logger.Error("marshal response failed", slog.String("error", err.Error()))
			return result
		}
		return string(b)
	default:
		return result
	}
}

func (g *Generator) convert(ctx context.Context, q query.Conversion) []string {
	from, ok := g.resolver.Find(q.FromRef)
	if !ok {
		return []string{"unknown token: " + q.FromRef}
	}
	to, ok := g.resolver.Find(q.ToRef)
	if !ok {
		return []string{"unknown token: " + q.ToRef}
	}

	raw, err := g.market.SimplePrices(ctx, []string{from.ID, to.ID}, []string{usdPivot})
	if err != nil {
		g.logger.Error("conversion price fetch failed",
			slog.String("from", from.ID),
			slog.String("to", to.ID),
			slog.String("error", err.Error()),
		)
		return []string{"error fetching conversion data"}
	}

	priceFrom := raw[from.ID][usdPivot]
	priceTo := raw[to.ID][usdPivot]
	if priceFrom <= 0 {
		return []string{"no price data for " + upperSymbol(from)}
	}
	if priceTo <= 0 {
		return []string{"no price data for " + upperSymbol(to)}
	}

	value := q.Amount * (priceFrom / priceTo)
	return []string{fmt.Sprintf("%s %s = %s %s",
		formatAmount(q.Amount), upperSymbol(from), formatValue(value), upperSymbol(to))}
}

func (g *Generator) historical(ctx context.Context, q query.PriceLookup) []string {
	day, err := time.Parse(isoDateLayout, q.Date)
	if err != nil {
		return []string{"unrecognized date: " + q.Date}
	}

	// сравниваем начала суток: сегодняшняя дата ещё допустима
	today := g.clk.Now().UTC().Truncate(24 * time.Hour)
	if day.After(today) {
		return []string{fmt.Sprintf("%s is in the future, historical prices are not available", q.Date)}
	}

	var lines []string
	// по одному токену за раз, последовательно
	for i, coin := range q.Coins {
		hd, err := g.market.History(ctx, coin.ID, day)
		if err != nil {
			g.logger.Error("history fetch failed",
				slog.String("coin", coin.ID),
				slog.String("date", q.Date),
				slog.String("error", err.Error()),
			)
			lines = append(lines, fmt.Sprintf("no historical data for %s on %s", upperSymbol(coin), q.Date))
			continue
		}
		if len(hd.Prices) == 0 {
			lines = append(lines, fmt.Sprintf("no historical data for %s on %s", upperSymbol(coin), q.Date))
			continue
		}

		for _, cur := range q.Currencies {
			price := hd.Prices[cur]
			if price <= 0 {
				lines = append(lines, fmt.Sprintf("no historical price for %s in %s on %s",
					upperSymbol(coin), strings.ToUpper(cur), q.Date))
				continue
			}
			total := q.Amounts[i] * price
			lines = append(lines, fmt.Sprintf("%s %s = %s %s on %s (market cap: %s, 24h volume: %s)",
				formatAmount(q.Amounts[i]), upperSymbol(coin), formatValue(total), strings.ToUpper(cur), q.Date,
				formatFromMap(hd.MarketCaps, cur), formatFromMap(hd.Volumes, cur)))
		}
	}
	return lines
}

func (g *Generator) current(ctx context.Context, q query.PriceLookup) []string {
	ids := make([]string, 0, len(q.Coins))
	for _, c := range q.Coins {
		ids = append(ids, c.ID)
	}

	var lines []string
	for _, cur := range q.Currencies {
		infos, err := g.market.Markets(ctx, ids, cur)
		if err != nil {
			g.logger.Error("price fetch failed",
				slog.String("currency", cur),
				slog.String("error", err.Error()),
			)
			lines = append(lines, "error fetching price data for "+strings.ToUpper(cur))
			continue
		}

		for i, coin := range q.Coins {
			info := infos[coin.ID]
			if info.Price == nil || *info.Price <= 0 {
				lines = append(lines, fmt.Sprintf("no price data for %s in %s",
					upperSymbol(coin), strings.ToUpper(cur)))
				continue
			}
			total := q.Amounts[i] * *info.Price
			lines = append(lines, fmt.Sprintf("%s %s = %s %s (market cap: %s, 24h volume: %s, 24h change: %s)",
				formatAmount(q.Amounts[i]), upperSymbol(coin), formatValue(total), strings.ToUpper(cur),
				formatOptional(info.MarketCap), formatOptional(info.Volume24h), formatChange(info.Change24h)))
		}
	}
	return lines
}

func formatFromMap(m map[string]float64, cur string) string {
	v, ok := m[cur]
	if !ok || v == 0 {
		return "N/A"
	}
	return formatValue(v)
}

func upperSymbol(c domain.Coin) string {
	return strings.ToUpper(c.Symbol)
}
