package directory

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/annadenisova/crypto-query-service/internal/domain"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

// countingFetcher - источник списка, считающий обращения
type countingFetcher struct {
	calls int
	coins []domain.Coin
	err   error
}

func (f *countingFetcher) CoinList(_ context.Context) ([]domain.Coin, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coins, nil
}

func manyCoins(n int) []domain.Coin {
	coins := []domain.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "ethereum-classic", Symbol: "etc", Name: "Ethereum Classic"},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"},
		{ID: "cardano", Symbol: "ada", Name: "Cardano"},
	}
	for len(coins) < n {
		coins = append(coins, domain.Coin{
			ID:     "filler-" + string(rune('a'+len(coins)%26)) + string(rune('a'+len(coins)/26)),
			Symbol: "zzz" + string(rune('a'+len(coins)%26)) + string(rune('a'+len(coins)/26)),
			Name:   "Filler",
		})
	}
	return coins
}

func setupDir(t *testing.T, fetcher *countingFetcher, clk *fakeClock) *Directory {
	t.Helper()
	d := New(fetcher, 24*time.Hour, 500, clk, slog.Default())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	return d
}

func TestLoad_IdempotentWithinTTL(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single upstream fetch within TTL, got %d", fetcher.calls)
	}
}

func TestLoad_RefetchesAfterTTL(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	clk.now = clk.now.Add(25 * time.Hour)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", fetcher.calls)
	}
}

func TestLoad_TruncatedIndexDoesNotBlockReload(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := &countingFetcher{coins: manyCoins(10)} // ниже нижней границы
	d := setupDir(t, fetcher, clk)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("short index must not count as fresh, got %d calls", fetcher.calls)
	}
}

func TestLoad_FetchErrorKeepsOldIndex(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	clk.now = clk.now.Add(25 * time.Hour)
	fetcher.err = errors.New("upstream down")
	if err := d.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	// старый индекс остаётся рабочим
	if _, ok := d.Find("btc"); !ok {
		t.Fatal("stale index must stay queryable after failed reload")
	}
}

func TestLoad_DuplicateKeysFirstWriteWins(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	coins := manyCoins(600)
	coins = append(coins, domain.Coin{ID: "bitcoin-fake", Symbol: "btc", Name: "Bitcoin"})
	fetcher := &countingFetcher{coins: coins}
	d := setupDir(t, fetcher, clk)

	coin, ok := d.Find("btc")
	if !ok || coin.ID != "bitcoin" {
		t.Fatalf("expected first occurrence to win, got %+v", coin)
	}
}

func TestFind_ExactMatchesAreCaseInsensitive(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	for _, ref := range []string{"ETH", "ethereum", "Ethereum", " eth "} {
		coin, ok := d.Find(ref)
		if !ok || coin.ID != "ethereum" {
			t.Fatalf("Find(%q) = %+v, %v; want ethereum", ref, coin, ok)
		}
	}
}

func TestFind_AliasBypassesFuzzy(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	coin, ok := d.Find("doge")
	if !ok || coin.ID != "dogecoin" {
		t.Fatalf("alias lookup failed: %+v, %v", coin, ok)
	}
}

func TestFind_FuzzyWithinThreshold(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	// "dge" в одном редактировании от "doge"
	coin, ok := d.Find("dge")
	if !ok || coin.ID != "dogecoin" {
		t.Fatalf("expected fuzzy hit on dogecoin, got %+v, %v", coin, ok)
	}
}

func TestFind_FuzzyTieKeepsFirstCoin(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	// "eth" и "etc" оба на расстоянии 1 от "etx"; eth идёт раньше в списке
	fetcher := &countingFetcher{coins: manyCoins(600)}
	d := setupDir(t, fetcher, clk)

	coin, ok := d.Find("etx")
	if !ok || coin.ID != "ethereum" {
		t.Fatalf("expected tie to keep list order, got %+v, %v", coin, ok)
	}
}

func TestFind_NoMatchBeyondThreshold(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	fetcher := &countingFetcher{coins: []domain.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	}}
	d := New(fetcher, 24*time.Hour, 0, clk, slog.Default())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if coin, ok := d.Find("xyzxyz"); ok {
		t.Fatalf("expected no match at distance >= 3, got %+v", coin)
	}
}
