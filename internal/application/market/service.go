// Package market answers FX and crypto conversion requests through the
// cache-aware provider pipeline.
package market

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/application/cached"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cache"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	marketprov "github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/market"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// ToolName names the cache directory of the market helper.
const ToolName = "market-cli"

// Request is one conversion query as typed on the command line.
type Request struct {
	Base   string
	Quote  string
	Amount string
}

// Service resolves quotes and converts amounts.
type Service struct {
	Config     config.MarketConfig
	HTTPClient *http.Client
	Now        ports.Clock
	Sleeper    ports.Sleeper
	Logger     ports.Logger
}

// FX converts between fiat currencies.
func (s *Service) FX(ctx context.Context, req Request) (domain.MarketResult, error) {
	return s.convert(ctx, domain.MarketFX, req)
}

// Crypto converts a crypto asset into a quote currency.
func (s *Service) Crypto(ctx context.Context, req Request) (domain.MarketResult, error) {
	return s.convert(ctx, domain.MarketCrypto, req)
}

// TTLFor returns the freshness window for a cache key of either kind.
func (s *Service) TTLFor(key string) uint64 {
	if strings.HasPrefix(key, string(domain.MarketCrypto)+"-") {
		return s.Config.CryptoTTLSecs
	}
	return s.Config.FXTTLSecs
}

func (s *Service) convert(ctx context.Context, kind domain.MarketKind, req Request) (domain.MarketResult, error) {
	base, quote, err := parsePair(kind, req)
	if err != nil {
		return domain.MarketResult{}, err
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return domain.MarketResult{}, err
	}

	ttl := s.Config.FXTTLSecs
	if kind == domain.MarketCrypto {
		ttl = s.Config.CryptoTTLSecs
	}

	resolver := cached.Resolver[domain.Quote]{
		Store:  cache.NewStore[domain.Quote](cache.NewFileCache(s.Config.CacheRoot, ToolName)),
		Now:    s.clock(),
		Logger: s.Logger,
	}
	res, err := resolver.Resolve(ctx, cached.Request[domain.Quote]{
		Key:           cache.Key(string(kind), base, quote),
		TTLSecs:       ttl,
		Pipeline:      s.pipeline(kind, base, quote),
		FailurePrefix: string(kind) + " provider failure",
	})
	if err != nil {
		return domain.MarketResult{}, err
	}

	unit := res.Payload.UnitPrice
	return domain.MarketResult{
		Kind:          kind,
		Base:          base,
		Quote:         quote,
		Amount:        FormatDecimal(amount, -1),
		UnitPrice:     FormatDecimal(unit, -1),
		Converted:     FormatDecimal(amount*unit, 4),
		Provider:      res.Provider,
		FetchedAt:     res.FetchedAt,
		Cache:         res.Cache,
		ProviderTrace: res.Trace,
	}, nil
}

func (s *Service) pipeline(kind domain.MarketKind, base, quote string) provider.Pipeline[domain.Quote] {
	client := provider.JSONClient{HTTPClient: s.HTTPClient}
	var providers []ports.Provider[domain.Quote]
	switch kind {
	case domain.MarketFX:
		providers = append(providers,
			marketprov.Frankfurter{Endpoint: s.Config.FrankfurterURL, Client: client, Base: base, Quote: quote})
	default:
		providers = append(providers,
			marketprov.Coinbase{Endpoint: s.Config.CoinbaseURL, Client: client, Base: base, Quote: quote},
			marketprov.Kraken{Endpoint: s.Config.KrakenURL, Client: client, Base: base, Quote: quote})
	}
	return provider.Pipeline[domain.Quote]{
		Providers: providers,
		Policy:    s.Config.Retry,
		Sleeper:   s.Sleeper,
		Logger:    s.Logger,
	}
}

func (s *Service) clock() ports.Clock {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}

func parsePair(kind domain.MarketKind, req Request) (string, string, error) {
	base, err := config.ParseCurrencyCode("base", req.Base)
	if err != nil {
		return "", "", err
	}
	quote, err := config.ParseCurrencyCode("quote", req.Quote)
	if err != nil {
		return "", "", err
	}
	if kind == domain.MarketFX {
		if !isCurrency(base) {
			return "", "", domain.InvalidInput("invalid --base value %q: expected a 3-letter currency code", base)
		}
		if !isCurrency(quote) {
			return "", "", domain.InvalidInput("invalid --quote value %q: expected a 3-letter currency code", quote)
		}
	}
	if base == quote {
		return "", "", domain.InvalidInput("--base and --quote must differ")
	}
	return base, quote, nil
}

func isCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// ParseAmount reads a positive decimal amount; blank means 1.
func ParseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 1, nil
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, domain.InvalidInput("invalid --amount value %q: expected a number", raw)
	}
	if amount <= 0 {
		return 0, domain.InvalidInput("amount must be positive")
	}
	return amount, nil
}

// FormatDecimal renders v with at most places decimals and no trailing
// zeros. places < 0 keeps the shortest exact representation.
func FormatDecimal(v float64, places int) string {
	s := strconv.FormatFloat(v, 'f', places, 64)
	if places > 0 && strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
