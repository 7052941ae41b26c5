package market

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// Coinbase reads spot prices from the public prices endpoint.
type Coinbase struct {
	Endpoint string
	Client   provider.JSONClient
	Base     string
	Quote    string
}

func (c Coinbase) Name() string {
	return "coinbase"
}

// FetchOnce implements ports.Provider.
func (c Coinbase) FetchOnce(ctx context.Context) (domain.Quote, error) {
	var body struct {
		Data struct {
			Amount   string `json:"amount"`
			Base     string `json:"base"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	pair := url.PathEscape(c.Base + "-" + c.Quote)
	endpoint := strings.TrimRight(c.Endpoint, "/") + "/v2/prices/" + pair + "/spot"
	if err := c.Client.Get(ctx, endpoint, nil, &body); err != nil {
		return domain.Quote{}, asUnsupported(err, c.Base, c.Quote)
	}

	price, err := parsePrice(body.Data.Amount)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{Kind: domain.MarketCrypto, Base: c.Base, Quote: c.Quote, UnitPrice: price}, nil
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, provider.InvalidResponse("missing price")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, provider.InvalidResponse("price %q is not a number", raw)
	}
	if price <= 0 {
		return 0, provider.InvalidResponse("non-positive price %q", raw)
	}
	return price, nil
}
