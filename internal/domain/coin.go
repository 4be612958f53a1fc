package domain

// Coin - одна запись из списка монет провайдера
type Coin struct {
	ID     string `json:"id"`     // canonical id ("bitcoin")
	Symbol string `json:"symbol"` // ticker ("btc")
	Name   string `json:"name"`   // display name ("Bitcoin")
}

// PriceInfo - рыночный срез по монете в одной котируемой валюте.
// Nil means the provider did not report the value, not zero.
type PriceInfo struct {
	Price     *float64
	MarketCap *float64
	Volume24h *float64
	Change24h *float64 // percent over the last 24h
}

// HistoricalData - снимок исторических данных по монете на конкретную дату.
// Maps are keyed by lowercase currency code; a missing key means "not available".
type HistoricalData struct {
	Prices     map[string]float64
	MarketCaps map[string]float64
	Volumes    map[string]float64
}
