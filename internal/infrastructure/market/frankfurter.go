// Package market adapts FX and crypto price APIs to provider.Pipeline.
package market

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// Frankfurter quotes ECB reference rates.
type Frankfurter struct {
	Endpoint string
	Client   provider.JSONClient
	Base     string
	Quote    string
}

func (f Frankfurter) Name() string {
	return "frankfurter"
}

// FetchOnce implements ports.Provider.
func (f Frankfurter) FetchOnce(ctx context.Context) (domain.Quote, error) {
	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	query := url.Values{"from": {f.Base}, "to": {f.Quote}}
	if err := f.Client.Get(ctx, strings.TrimRight(f.Endpoint, "/")+"/latest", query, &body); err != nil {
		return domain.Quote{}, asUnsupported(err, f.Base, f.Quote)
	}

	rate, ok := body.Rates[f.Quote]
	if !ok {
		return domain.Quote{}, provider.UnsupportedPair("%s/%s", f.Base, f.Quote)
	}
	if rate <= 0 {
		return domain.Quote{}, provider.InvalidResponse("non-positive rate %v for %s/%s", rate, f.Base, f.Quote)
	}
	return domain.Quote{Kind: domain.MarketFX, Base: f.Base, Quote: f.Quote, UnitPrice: rate}, nil
}

// asUnsupported turns "not found" style statuses into UnsupportedPair.
func asUnsupported(err error, base, quote string) error {
	perr := provider.Classify(err)
	if perr.Kind == provider.KindHTTP &&
		(perr.Status == http.StatusNotFound || perr.Status == http.StatusUnprocessableEntity) {
		return provider.UnsupportedPair("%s/%s (%s)", base, quote, perr.Short())
	}
	return err
}
