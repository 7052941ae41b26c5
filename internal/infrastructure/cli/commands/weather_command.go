package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	weatherapp "github.com/graysurf/nils-alfredworkflow-sub001/internal/application/weather"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

// NewWeatherRoot builds the weather-cli command tree.
func NewWeatherRoot(s *cli.Session) *cobra.Command {
	root := cli.NewRoot(s, "weather-cli", "Daily weather for Alfred")
	root.AddCommand(
		newWeatherTodayCommand(s),
		newCacheCommand(s, weatherapp.ToolName, func() (string, func(string) uint64, error) {
			svc, err := newWeatherService(s)
			if err != nil {
				return "", nil, err
			}
			return svc.Config.CacheRoot, svc.TTLFor, nil
		}),
		NewVersionCommand(s, "weather-cli"),
	)
	return root
}

func newWeatherService(s *cli.Session) (*weatherapp.Service, error) {
	cfg, err := config.LoadWeather(s.Env)
	if err != nil {
		return nil, err
	}
	return &weatherapp.Service{
		Config:     cfg,
		HTTPClient: s.HTTPClient(cfg.Timeout),
		Now:        s.Clock(),
		Sleeper:    s.Sleeper,
		Logger:     s.Logger,
	}, nil
}

func newWeatherTodayCommand(s *cli.Session) *cobra.Command {
	var req weatherapp.Request
	cmd := cli.Command(s, "weather.today", "today", "Today's forecast for a city or coordinates",
		func(ctx context.Context) (output.Response, error) {
			svc, err := newWeatherService(s)
			if err != nil {
				return output.Response{}, err
			}
			res, err := svc.Today(ctx, req)
			if err != nil {
				return output.Response{}, err
			}
			return weatherResponse(res, s.Clock()()), nil
		})
	cmd.Flags().StringVar(&req.City, "city", "", "City name")
	cmd.Flags().StringVar(&req.Lat, "lat", "", "Latitude in decimal degrees")
	cmd.Flags().StringVar(&req.Lon, "lon", "", "Longitude in decimal degrees")
	return cmd
}

func weatherResponse(res domain.WeatherResult, now time.Time) output.Response {
	headline := fmt.Sprintf("%s: %s, %.1f~%.1f°C", res.Location.Name, res.Summary, res.TempMinC, res.TempMaxC)
	detail := fmt.Sprintf("%s · precipitation %.1f mm · %s · %s",
		res.Date, res.PrecipitationMM, res.Provider, cacheNote(res.Cache, res.FetchedAt, now))

	return output.Response{
		Result: res,
		Feedback: func() domain.Feedback {
			return domain.Feedback{Items: []domain.Item{{
				Title:    headline,
				Subtitle: detail,
				Arg:      headline,
			}}}
		},
		Human: cli.HumanLines(headline, detail),
	}
}
