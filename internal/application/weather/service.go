// Package weather serves today's forecast for a city or coordinate pair.
package weather

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/application/cached"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cache"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	weatherprov "github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/weather"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// ToolName names the cache directory of the weather helper.
const ToolName = "weather-cli"

// Request selects a place by city name or by coordinates, never both.
type Request struct {
	City string
	Lat  string
	Lon  string
}

// Service resolves forecasts through the cache-aware pipeline.
type Service struct {
	Config     config.WeatherConfig
	HTTPClient *http.Client
	Now        ports.Clock
	Sleeper    ports.Sleeper
	Logger     ports.Logger
}

// Today returns today's forecast.
func (s *Service) Today(ctx context.Context, req Request) (domain.WeatherResult, error) {
	key, locator, err := s.target(req)
	if err != nil {
		return domain.WeatherResult{}, err
	}

	client := provider.JSONClient{HTTPClient: s.HTTPClient}
	pipeline := provider.Pipeline[domain.WeatherReport]{
		Providers: []ports.Provider[domain.WeatherReport]{
			weatherprov.OpenMeteo{Endpoint: s.Config.OpenMeteoURL, Client: client, Locator: locator},
			weatherprov.MetNo{Endpoint: s.Config.MetNoURL, Client: client, UserAgent: s.Config.UserAgent, Locator: locator},
		},
		Policy:  s.Config.Retry,
		Sleeper: s.Sleeper,
		Logger:  s.Logger,
	}

	resolver := cached.Resolver[domain.WeatherReport]{
		Store:  cache.NewStore[domain.WeatherReport](cache.NewFileCache(s.Config.CacheRoot, ToolName)),
		Now:    s.clock(),
		Logger: s.Logger,
	}
	res, err := resolver.Resolve(ctx, cached.Request[domain.WeatherReport]{
		Key:           key,
		TTLSecs:       s.Config.TTLSecs,
		Pipeline:      pipeline,
		FailurePrefix: "weather provider failure",
	})
	if err != nil {
		return domain.WeatherResult{}, err
	}
	return domain.WeatherResult{
		WeatherReport: res.Payload,
		Provider:      res.Provider,
		FetchedAt:     res.FetchedAt,
		Cache:         res.Cache,
		ProviderTrace: res.Trace,
	}, nil
}

// TTLFor returns the freshness window for any weather cache key.
func (s *Service) TTLFor(string) uint64 {
	return s.Config.TTLSecs
}

func (s *Service) target(req Request) (string, weatherprov.Locator, error) {
	city := strings.TrimSpace(req.City)
	hasCoords := strings.TrimSpace(req.Lat) != "" || strings.TrimSpace(req.Lon) != ""
	switch {
	case city != "" && hasCoords:
		return "", nil, domain.InvalidInput("use either --city or --lat/--lon, not both")
	case city != "":
		lookup := &weatherprov.CityLookup{
			Endpoint:    s.Config.GeocodingURL,
			Client:      provider.JSONClient{HTTPClient: s.HTTPClient},
			City:        city,
			CountryCode: s.Config.CountryCode,
		}
		return cache.Key("today", city), lookup, nil
	case hasCoords:
		lat, err := parseCoord("lat", req.Lat, 90)
		if err != nil {
			return "", nil, err
		}
		lon, err := parseCoord("lon", req.Lon, 180)
		if err != nil {
			return "", nil, err
		}
		loc := weatherprov.Fixed{Name: fmt.Sprintf("%.4f,%.4f", lat, lon), Latitude: lat, Longitude: lon}
		return cache.CoordKey("today", "coords", lat, lon), loc, nil
	default:
		return "", nil, domain.InvalidInput("--city or --lat/--lon is required")
	}
}

func parseCoord(flag, raw string, limit float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.InvalidInput("--%s is required with coordinates", flag)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return 0, domain.InvalidInput("invalid --%s value %q: expected a number between %v and %v", flag, raw, -limit, limit)
	}
	return v, nil
}

func (s *Service) clock() ports.Clock {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}
