package weather

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// OpenMeteo reads today's daily aggregates from the Open-Meteo forecast API.
type OpenMeteo struct {
	Endpoint string
	Client   provider.JSONClient
	Locator  Locator
}

func (o OpenMeteo) Name() string {
	return "open_meteo"
}

// FetchOnce implements ports.Provider.
func (o OpenMeteo) FetchOnce(ctx context.Context) (domain.WeatherReport, error) {
	loc, err := o.Locator.Locate(ctx)
	if err != nil {
		return domain.WeatherReport{}, err
	}

	var body struct {
		Timezone string `json:"timezone"`
		Daily    struct {
			Time          []string   `json:"time"`
			WeatherCode   []*int     `json:"weather_code"`
			TempMax       []*float64 `json:"temperature_2m_max"`
			TempMin       []*float64 `json:"temperature_2m_min"`
			Precipitation []*float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	query := url.Values{
		"latitude":      {formatCoord(loc.Latitude)},
		"longitude":     {formatCoord(loc.Longitude)},
		"daily":         {"weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum"},
		"timezone":      {"auto"},
		"forecast_days": {"1"},
	}
	endpoint := strings.TrimRight(o.Endpoint, "/") + "/v1/forecast"
	if err := o.Client.Get(ctx, endpoint, query, &body); err != nil {
		return domain.WeatherReport{}, err
	}

	d := body.Daily
	if len(d.Time) == 0 || len(d.TempMax) == 0 || len(d.TempMin) == 0 ||
		d.TempMax[0] == nil || d.TempMin[0] == nil {
		return domain.WeatherReport{}, provider.InvalidResponse("daily forecast is empty")
	}
	summary := "Unknown"
	if len(d.WeatherCode) > 0 && d.WeatherCode[0] != nil {
		summary = SummaryForCode(*d.WeatherCode[0])
	}
	var precipitation float64
	if len(d.Precipitation) > 0 && d.Precipitation[0] != nil {
		precipitation = *d.Precipitation[0]
	}
	if loc.Timezone == "" {
		loc.Timezone = body.Timezone
	}

	return domain.WeatherReport{
		Location:        loc,
		Date:            d.Time[0],
		Summary:         summary,
		TempMaxC:        *d.TempMax[0],
		TempMinC:        *d.TempMin[0],
		PrecipitationMM: precipitation,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
