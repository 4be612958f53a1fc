package query

import "github.com/annadenisova/crypto-query-service/internal/domain"

// Разобранный запрос — tagged union: либо конверсия, либо запрос цены.
// Каллеры делают исчерпывающий switch по типу.

type Query interface {
	isQuery()
}

// Conversion - "сколько X стоит в Y": ссылки на токены ещё не разрешены
type Conversion struct {
	Amount  float64
	FromRef string
	ToRef   string
}

// PriceLookup - запрос цен: монеты уже разрешены через справочник.
// Инвариант: len(Amounts) == len(Coins), всегда, по построению.
type PriceLookup struct {
	Coins      []domain.Coin
	Amounts    []float64
	Currencies []string // lowercase коды валют
	Date       string   // YYYY-MM-DD, пусто если дата не запрошена
}

func (Conversion) isQuery()  {}
func (PriceLookup) isQuery() {}
