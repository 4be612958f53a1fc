package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/annadenisova/crypto-query-service/internal/domain"
)

// Парсер свободного текста в структурированный запрос.
// Тотальная функция: любой вход даёт какой-то запрос, ошибки разбора
// превращаются в дефолты, а "не найдено" решается ниже по конвейеру.

// Resolver — разрешение ссылок на монеты через справочник
type Resolver interface {
	Find(reference string) (domain.Coin, bool)
}

var (
	// три паттерна конверсии, проверяются по порядку
	convertPattern = regexp.MustCompile(`^convert\s+(?:([0-9]+(?:\.[0-9]+)?|[a-z]+)\s+)?([a-z0-9-]+)\s+to\s+([a-z0-9-]+)`)
	leadingPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s+([a-z0-9-]+)\s+to\s+([a-z0-9-]+)`)
	howMuchPattern = regexp.MustCompile(`^how\s+much\s+is\s+(?:([0-9]+(?:\.[0-9]+)?|[a-z]+)\s+)?([a-z0-9-]+)\s+in\s+([a-z0-9-]+)`)

	datePattern     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	overridePattern = regexp.MustCompile(`\bto\s+([a-z0-9-]+)`)
	wordPattern     = regexp.MustCompile(`[a-z0-9-]+`)
	numberPattern   = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

type Parser struct {
	resolver Resolver
}

// NewParser — конструктор парсера запросов
func NewParser(resolver Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// Parse — классифицирует текст как конверсию или запрос цены
func (p *Parser) Parse(text string) Query {
	t := strings.ToLower(strings.TrimSpace(text))

	if conv, ok := parseConversion(t); ok {
		return conv
	}
	return p.parseLookup(t)
}

// parseConversion — пробует паттерны конверсии по порядку; первый
// совпавший побеждает. Если целевая валюта — fiat, конверсия не
// признаётся: "5 btc to eur" обслуживается как lookup с переопределением
// валюты, чтобы не упереться в разрешение fiat-кода как монеты.
func parseConversion(t string) (Conversion, bool) {
	for _, re := range []*regexp.Regexp{convertPattern, leadingPattern, howMuchPattern} {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		if fiats[m[3]] {
			return Conversion{}, false
		}
		return Conversion{
			Amount:  parseAmount(m[1]),
			FromRef: m[2],
			ToRef:   m[3],
		}, true
	}
	return Conversion{}, false
}

func (p *Parser) parseLookup(t string) PriceLookup {
	working := t

	// встроенная ISO-дата, одна, убирается из рабочего текста
	var date string
	if m := datePattern.FindString(working); m != "" {
		date = m
		working = strings.Replace(working, m, " ", 1)
	}

	// "to WORD": одиночная валюта, переопределяющая весь список fiat
	var override string
	if m := overridePattern.FindStringSubmatch(working); m != nil {
		word := m[1]
		switch {
		case fiats[word]:
			override = word
			working = strings.Replace(working, m[0], " ", 1)
		default:
			if coin, ok := p.resolver.Find(word); ok {
				override = strings.ToLower(coin.Symbol)
				working = strings.Replace(working, m[0], " ", 1)
			}
		}
	}

	words := wordPattern.FindAllString(working, -1)

	var coins []domain.Coin
	seenCoin := make(map[string]bool)
	var currencies []string
	seenFiat := make(map[string]bool)

	for _, w := range words {
		if len(w) < 2 || stopWords[w] {
			continue
		}
		// числа — это суммы, не ссылки на токены
		if _, err := strconv.ParseFloat(w, 64); err == nil {
			continue
		}
		if _, ok := numberWords[w]; ok {
			continue
		}
		if fiats[w] {
			if !seenFiat[w] {
				seenFiat[w] = true
				currencies = append(currencies, w)
			}
			continue
		}
		if coin, ok := p.resolver.Find(w); ok && !seenCoin[coin.ID] {
			seenCoin[coin.ID] = true
			coins = append(coins, coin)
		}
	}

	// дефолты: непонятный запрос — это всегда "биткоин в usd"
	if len(coins) == 0 {
		coins = append(coins, p.defaultCoin())
	}
	if len(currencies) == 0 {
		currencies = []string{"usd"}
	}
	if override != "" {
		currencies = []string{override}
	}

	amounts := alignAmounts(extractAmounts(working, words), len(coins))

	return PriceLookup{
		Coins:      coins,
		Amounts:    amounts,
		Currencies: currencies,
		Date:       date,
	}
}

func (p *Parser) defaultCoin() domain.Coin {
	if coin, ok := p.resolver.Find("bitcoin"); ok {
		return coin
	}
	// справочник ещё не загружен
	return domain.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}
}

// extractAmounts — сначала десятичные литералы, потом числительные прописью
func extractAmounts(working string, words []string) []float64 {
	var amounts []float64
	for _, m := range numberPattern.FindAllString(working, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			amounts = append(amounts, v)
		}
	}
	if len(amounts) > 0 {
		return amounts
	}
	for _, w := range words {
		if v, ok := numberWords[w]; ok {
			amounts = append(amounts, v)
		}
	}
	return amounts
}

// alignAmounts — выравнивает суммы 1:1 с токенами: одну сумму
// транслируем на все, недостающие добиваем первой, лишние отрезаем
func alignAmounts(amounts []float64, n int) []float64 {
	if len(amounts) == 0 {
		amounts = make([]float64, n)
		for i := range amounts {
			amounts[i] = 1
		}
		return amounts
	}
	for len(amounts) < n {
		amounts = append(amounts, amounts[0])
	}
	return amounts[:n]
}

// parseAmount — десятичный литерал или числительное прописью, иначе 1
func parseAmount(s string) float64 {
	if s == "" {
		return 1
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if v, ok := numberWords[s]; ok {
		return v
	}
	return 1
}
