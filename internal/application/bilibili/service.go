// Package bilibili turns a search term into bilibili suggestions.
package bilibili

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/application/cached"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	bilibiliprov "github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/bilibili"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Service queries suggestions. Results are not cached.
type Service struct {
	Config     config.BilibiliConfig
	HTTPClient *http.Client
	Sleeper    ports.Sleeper
	Logger     ports.Logger
}

// Query returns up to Config.MaxResults suggestions for term.
func (s *Service) Query(ctx context.Context, term string) ([]domain.Suggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.InvalidInput("query must not be empty")
	}

	pipeline := provider.Pipeline[[]domain.Suggestion]{
		Providers: []ports.Provider[[]domain.Suggestion]{
			bilibiliprov.Suggest{
				Endpoint: s.Config.SuggestURL,
				Client:   provider.JSONClient{HTTPClient: s.HTTPClient},
				Term:     term,
				UID:      s.Config.UID,
				Limit:    s.Config.MaxResults,
			},
		},
		Policy:  s.Config.Retry,
		Sleeper: s.Sleeper,
		Logger:  s.Logger,
	}
	res, err := pipeline.Run(ctx)
	if err != nil {
		var failure *provider.Failure
		if errors.As(err, &failure) {
			return nil, cached.FailureError("bilibili suggestion failure", failure)
		}
		return nil, err
	}
	return res.Payload, nil
}
