package weather

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// MetNo aggregates the next 24 hours of the MET Norway compact forecast.
// The API requires an identifying User-Agent.
type MetNo struct {
	Endpoint  string
	Client    provider.JSONClient
	UserAgent string
	Locator   Locator
}

func (m MetNo) Name() string {
	return "met_no"
}

type metNoStep struct {
	Time string `json:"time"`
	Data struct {
		Instant struct {
			Details struct {
				AirTemperature *float64 `json:"air_temperature"`
			} `json:"details"`
		} `json:"instant"`
		Next1Hours *metNoPeriod `json:"next_1_hours"`
		Next6Hours *metNoPeriod `json:"next_6_hours"`
	} `json:"data"`
}

type metNoPeriod struct {
	Summary struct {
		SymbolCode string `json:"symbol_code"`
	} `json:"summary"`
	Details struct {
		PrecipitationAmount *float64 `json:"precipitation_amount"`
	} `json:"details"`
}

// FetchOnce implements ports.Provider.
func (m MetNo) FetchOnce(ctx context.Context) (domain.WeatherReport, error) {
	loc, err := m.Locator.Locate(ctx)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	var body struct {
		Properties struct {
			Timeseries []metNoStep `json:"timeseries"`
		} `json:"properties"`
	}
	client := m.Client
	client.Headers = map[string]string{"User-Agent": m.UserAgent}
	query := url.Values{
		"lat": {formatCoord(loc.Latitude)},
		"lon": {formatCoord(loc.Longitude)},
	}
	endpoint := strings.TrimRight(m.Endpoint, "/") + "/weatherapi/locationforecast/2.0/compact"
	if err := client.Get(ctx, endpoint, query, &body); err != nil {
		return domain.WeatherReport{}, err
	}
	return aggregateMetNo(loc, body.Properties.Timeseries)
}

func aggregateMetNo(loc domain.Location, steps []metNoStep) (domain.WeatherReport, error) {
	if len(steps) == 0 {
		return domain.WeatherReport{}, provider.InvalidResponse("forecast timeseries is empty")
	}
	start, err := time.Parse(time.RFC3339, steps[0].Time)
	if err != nil {
		return domain.WeatherReport{}, provider.InvalidResponse("bad timeseries time %q", steps[0].Time)
	}
	end := start.Add(24 * time.Hour)

	tmax, tmin := math.Inf(-1), math.Inf(1)
	var precipitation float64
	summary := ""
	for _, step := range steps {
		at, err := time.Parse(time.RFC3339, step.Time)
		if err != nil || !at.Before(end) {
			break
		}
		if t := step.Data.Instant.Details.AirTemperature; t != nil {
			tmax = math.Max(tmax, *t)
			tmin = math.Min(tmin, *t)
		}
		if p := step.Data.Next1Hours; p != nil {
			if p.Details.PrecipitationAmount != nil {
				precipitation += *p.Details.PrecipitationAmount
			}
			if summary == "" {
				summary = p.Summary.SymbolCode
			}
		} else if p := step.Data.Next6Hours; p != nil && summary == "" {
			summary = p.Summary.SymbolCode
		}
	}
	if math.IsInf(tmax, 0) {
		return domain.WeatherReport{}, provider.InvalidResponse("forecast has no temperatures")
	}

	date := start
	if loc.Timezone != "" {
		if zone, err := time.LoadLocation(loc.Timezone); err == nil {
			date = start.In(zone)
		}
	}
	return domain.WeatherReport{
		Location:        loc,
		Date:            date.Format("2006-01-02"),
		Summary:         SummaryForSymbol(summary),
		TempMaxC:        tmax,
		TempMinC:        tmin,
		PrecipitationMM: math.Round(precipitation*10) / 10,
	}, nil
}
