package domain

// MarketKind separates fiat exchange rates from crypto spot prices.
type MarketKind string

const (
	MarketFX     MarketKind = "fx"
	MarketCrypto MarketKind = "crypto"
)

// Quote is the cached market payload: one unit of Base priced in Quote.
type Quote struct {
	Kind      MarketKind `json:"kind"`
	Base      string     `json:"base"`
	Quote     string     `json:"quote"`
	UnitPrice float64    `json:"unit_price"`
}

// MarketResult is the service payload of market.fx and market.crypto.
type MarketResult struct {
	Kind          MarketKind    `json:"kind"`
	Base          string        `json:"base"`
	Quote         string        `json:"quote"`
	Amount        string        `json:"amount"`
	UnitPrice     string        `json:"unit_price"`
	Converted     string        `json:"converted"`
	Provider      string        `json:"provider"`
	FetchedAt     string        `json:"fetched_at"`
	Cache         CacheMetadata `json:"cache"`
	ProviderTrace []string      `json:"provider_trace"`
}

// RedactTrace returns a copy of r with every trace entry passed through redact.
func (r MarketResult) RedactTrace(redact func(string) string) interface{} {
	r.ProviderTrace = redactEntries(r.ProviderTrace, redact)
	return r
}
