package query

import (
	"strings"
	"testing"

	"github.com/annadenisova/crypto-query-service/internal/domain"
)

// mapResolver - простой справочник для тестов парсера: точное
// совпадение по символу/id, без fuzzy
type mapResolver struct {
	coins map[string]domain.Coin
}

func (r *mapResolver) Find(ref string) (domain.Coin, bool) {
	c, ok := r.coins[strings.ToLower(strings.TrimSpace(ref))]
	return c, ok
}

func testResolver() *mapResolver {
	btc := domain.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}
	eth := domain.Coin{ID: "ethereum", Symbol: "eth", Name: "Ethereum"}
	doge := domain.Coin{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"}
	return &mapResolver{coins: map[string]domain.Coin{
		"btc": btc, "bitcoin": btc,
		"eth": eth, "ethereum": eth,
		"doge": doge, "dogecoin": doge,
	}}
}

func TestParse_ConvertPattern(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("convert 10 doge to btc")
	conv, ok := q.(Conversion)
	if !ok {
		t.Fatalf("expected Conversion, got %T", q)
	}
	if conv.Amount != 10 || conv.FromRef != "doge" || conv.ToRef != "btc" {
		t.Fatalf("unexpected conversion: %+v", conv)
	}
}

func TestParse_LeadingAmountPattern(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("2.5 eth to btc")
	conv, ok := q.(Conversion)
	if !ok {
		t.Fatalf("expected Conversion, got %T", q)
	}
	if conv.Amount != 2.5 || conv.FromRef != "eth" || conv.ToRef != "btc" {
		t.Fatalf("unexpected conversion: %+v", conv)
	}
}

func TestParse_HowMuchPattern(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("how much is ten doge in btc")
	conv, ok := q.(Conversion)
	if !ok {
		t.Fatalf("expected Conversion, got %T", q)
	}
	if conv.Amount != 10 || conv.FromRef != "doge" || conv.ToRef != "btc" {
		t.Fatalf("unexpected conversion: %+v", conv)
	}
}

func TestParse_ConvertWithoutAmountDefaultsToOne(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("convert doge to btc")
	conv, ok := q.(Conversion)
	if !ok {
		t.Fatalf("expected Conversion, got %T", q)
	}
	if conv.Amount != 1 {
		t.Fatalf("expected default amount 1, got %v", conv.Amount)
	}
}

func TestParse_FiatTargetBecomesLookupWithOverride(t *testing.T) {
	p := NewParser(testResolver())

	// "5 btc to eur" — lookup с переопределением валюты, не конверсия
	q := p.Parse("5 btc to eur")
	lookup, ok := q.(PriceLookup)
	if !ok {
		t.Fatalf("expected PriceLookup, got %T", q)
	}
	if len(lookup.Coins) != 1 || lookup.Coins[0].ID != "bitcoin" {
		t.Fatalf("unexpected coins: %+v", lookup.Coins)
	}
	if len(lookup.Currencies) != 1 || lookup.Currencies[0] != "eur" {
		t.Fatalf("unexpected currencies: %+v", lookup.Currencies)
	}
	if len(lookup.Amounts) != 1 || lookup.Amounts[0] != 5 {
		t.Fatalf("unexpected amounts: %+v", lookup.Amounts)
	}
}

func TestParse_LookupWithDate(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("price of bitcoin on 2023-06-01")
	lookup, ok := q.(PriceLookup)
	if !ok {
		t.Fatalf("expected PriceLookup, got %T", q)
	}
	if lookup.Date != "2023-06-01" {
		t.Fatalf("unexpected date: %q", lookup.Date)
	}
	if len(lookup.Coins) != 1 || lookup.Coins[0].ID != "bitcoin" {
		t.Fatalf("unexpected coins: %+v", lookup.Coins)
	}
	if len(lookup.Amounts) != 1 || lookup.Amounts[0] != 1 {
		t.Fatalf("unexpected amounts: %+v", lookup.Amounts)
	}
	if len(lookup.Currencies) != 1 || lookup.Currencies[0] != "usd" {
		t.Fatalf("unexpected currencies: %+v", lookup.Currencies)
	}
}

func TestParse_UnknownTextDefaultsToBitcoinUSD(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("xyzxyz")
	lookup, ok := q.(PriceLookup)
	if !ok {
		t.Fatalf("expected PriceLookup, got %T", q)
	}
	if len(lookup.Coins) != 1 || lookup.Coins[0].ID != "bitcoin" {
		t.Fatalf("expected default bitcoin, got %+v", lookup.Coins)
	}
	if lookup.Amounts[0] != 1 || lookup.Currencies[0] != "usd" {
		t.Fatalf("expected defaults, got %+v / %+v", lookup.Amounts, lookup.Currencies)
	}
}

func TestParse_AmountAlignmentInvariant(t *testing.T) {
	p := NewParser(testResolver())

	cases := []string{
		"price of btc and eth",              // ноль сумм, два токена
		"5 btc eth doge",                    // одна сумма, три токена
		"1 2 3 4 price of btc and eth",      // сумм больше, чем токенов
		"price of 7 btc",                    // один к одному
		"price of bitcoin eth on 2023-06-01",
	}
	for _, in := range cases {
		q := p.Parse(in)
		lookup, ok := q.(PriceLookup)
		if !ok {
			t.Fatalf("%q: expected PriceLookup, got %T", in, q)
		}
		if len(lookup.Amounts) != len(lookup.Coins) {
			t.Fatalf("%q: amounts/tokens mismatch: %d vs %d",
				in, len(lookup.Amounts), len(lookup.Coins))
		}
	}
}

func TestParse_SingleAmountBroadcasts(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("5 btc eth doge")
	lookup := q.(PriceLookup)
	if len(lookup.Coins) != 3 {
		t.Fatalf("expected 3 coins, got %+v", lookup.Coins)
	}
	for i, a := range lookup.Amounts {
		if a != 5 {
			t.Fatalf("amount %d not broadcast: %+v", i, lookup.Amounts)
		}
	}
}

func TestParse_ExtraAmountsTruncated(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("2 btc and 3 eth and 4")
	lookup := q.(PriceLookup)
	if len(lookup.Coins) != 2 {
		t.Fatalf("expected 2 coins, got %+v", lookup.Coins)
	}
	if lookup.Amounts[0] != 2 || lookup.Amounts[1] != 3 {
		t.Fatalf("unexpected amounts: %+v", lookup.Amounts)
	}
}

func TestParse_CoinsDeduplicatedInFirstSeenOrder(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("price of btc eth bitcoin")
	lookup := q.(PriceLookup)
	if len(lookup.Coins) != 2 {
		t.Fatalf("expected dedup to 2 coins, got %+v", lookup.Coins)
	}
	if lookup.Coins[0].ID != "bitcoin" || lookup.Coins[1].ID != "ethereum" {
		t.Fatalf("order not preserved: %+v", lookup.Coins)
	}
}

func TestParse_SpelledAmountFallback(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("price of five btc")
	lookup := q.(PriceLookup)
	if len(lookup.Amounts) != 1 || lookup.Amounts[0] != 5 {
		t.Fatalf("expected spelled-out amount 5, got %+v", lookup.Amounts)
	}
}

func TestParse_CurrencyOverrideWithCoinTarget(t *testing.T) {
	p := NewParser(testResolver())

	q := p.Parse("price of 5 btc to eth")
	lookup, ok := q.(PriceLookup)
	if !ok {
		t.Fatalf("expected PriceLookup, got %T", q)
	}
	if len(lookup.Currencies) != 1 || lookup.Currencies[0] != "eth" {
		t.Fatalf("unexpected currencies: %+v", lookup.Currencies)
	}
	if len(lookup.Coins) != 1 || lookup.Coins[0].ID != "bitcoin" {
		t.Fatalf("override target must not join coins: %+v", lookup.Coins)
	}
}
