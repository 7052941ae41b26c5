// Package weather adapts Open-Meteo and MET Norway to provider.Pipeline.
package weather

import (
	"context"
	"net/url"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// Locator yields the coordinates a forecast provider should query.
type Locator interface {
	Locate(ctx context.Context) (domain.Location, error)
}

// Fixed is a Locator for coordinates given on the command line.
type Fixed domain.Location

// Locate implements Locator.
func (f Fixed) Locate(context.Context) (domain.Location, error) {
	return domain.Location(f), nil
}

// CityLookup resolves a city name through the Open-Meteo geocoding API. The
// first successful lookup is reused by every later provider.
type CityLookup struct {
	Endpoint    string
	Client      provider.JSONClient
	City        string
	CountryCode string

	resolved *domain.Location
}

// Locate implements Locator.
func (c *CityLookup) Locate(ctx context.Context) (domain.Location, error) {
	if c.resolved != nil {
		return *c.resolved, nil
	}

	var body struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Timezone  string  `json:"timezone"`
		} `json:"results"`
	}
	query := url.Values{
		"name":     {c.City},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}
	if c.CountryCode != "" {
		query.Set("countryCode", c.CountryCode)
	}
	endpoint := strings.TrimRight(c.Endpoint, "/") + "/v1/search"
	if err := c.Client.Get(ctx, endpoint, query, &body); err != nil {
		return domain.Location{}, err
	}
	if len(body.Results) == 0 {
		return domain.Location{}, provider.UnsupportedInput("no location matches %q", c.City)
	}

	first := body.Results[0]
	loc := domain.Location{
		Name:      first.Name,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Timezone:  first.Timezone,
	}
	c.resolved = &loc
	return loc, nil
}
