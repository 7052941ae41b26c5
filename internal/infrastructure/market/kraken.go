package market

import (
	"context"
	"net/url"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// krakenAssets maps common tickers onto Kraken's legacy asset names.
var krakenAssets = map[string]string{
	"BTC":  "XBT",
	"DOGE": "XDG",
}

// Kraken reads the last trade price from the public ticker.
type Kraken struct {
	Endpoint string
	Client   provider.JSONClient
	Base     string
	Quote    string
}

func (k Kraken) Name() string {
	return "kraken"
}

// Pair returns the ticker pair Kraken expects, e.g. XBTUSD.
func (k Kraken) Pair() string {
	return krakenAsset(k.Base) + krakenAsset(k.Quote)
}

func krakenAsset(symbol string) string {
	if mapped, ok := krakenAssets[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchOnce implements ports.Provider.
func (k Kraken) FetchOnce(ctx context.Context) (domain.Quote, error) {
	var body struct {
		Error  []string `json:"error"`
		Result map[string]struct {
			Close []string `json:"c"`
		} `json:"result"`
	}
	endpoint := strings.TrimRight(k.Endpoint, "/") + "/0/public/Ticker"
	if err := k.Client.Get(ctx, endpoint, url.Values{"pair": {k.Pair()}}, &body); err != nil {
		return domain.Quote{}, asUnsupported(err, k.Base, k.Quote)
	}

	if len(body.Error) > 0 {
		message := strings.Join(body.Error, "; ")
		if strings.Contains(message, "Unknown asset pair") {
			return domain.Quote{}, provider.UnsupportedPair("%s: %s", k.Pair(), message)
		}
		return domain.Quote{}, provider.InvalidResponse("%s", message)
	}
	if len(body.Result) == 0 {
		return domain.Quote{}, provider.UnsupportedPair("%s", k.Pair())
	}

	// Kraken renames the pair in the response (XBTUSD -> XXBTZUSD); a single
	// pair query yields a single entry.
	for _, ticker := range body.Result {
		if len(ticker.Close) == 0 {
			return domain.Quote{}, provider.InvalidResponse("ticker for %s has no last trade", k.Pair())
		}
		price, err := parsePrice(ticker.Close[0])
		if err != nil {
			return domain.Quote{}, err
		}
		return domain.Quote{Kind: domain.MarketCrypto, Base: k.Base, Quote: k.Quote, UnitPrice: price}, nil
	}
	return domain.Quote{}, provider.UnsupportedPair("%s", k.Pair())
}
