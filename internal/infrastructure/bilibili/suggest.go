// Package bilibili reads search suggestions from the bilibili suggest API.
package bilibili

import (
	"context"
	"net/url"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
)

// Suggest is a provider returning suggestion rows for Term.
type Suggest struct {
	Endpoint string
	Client   provider.JSONClient
	Term     string
	UID      string
	Limit    int
}

func (s Suggest) Name() string {
	return "bilibili"
}

// FetchOnce implements ports.Provider.
func (s Suggest) FetchOnce(ctx context.Context) ([]domain.Suggestion, error) {
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Result  struct {
			Tag []struct {
				Value string `json:"value"`
			} `json:"tag"`
		} `json:"result"`
	}
	query := url.Values{"term": {s.Term}, "main_ver": {"v1"}}
	if s.UID != "" {
		query.Set("userid", s.UID)
	}
	endpoint := strings.TrimRight(s.Endpoint, "/") + "/main/suggest"
	if err := s.Client.Get(ctx, endpoint, query, &body); err != nil {
		return nil, err
	}
	if body.Code != 0 {
		return nil, provider.InvalidResponse("code %d: %s", body.Code, body.Message)
	}

	seen := map[string]bool{}
	out := make([]domain.Suggestion, 0, len(body.Result.Tag))
	for _, tag := range body.Result.Tag {
		value := strings.TrimSpace(tag.Value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, domain.Suggestion{Value: value})
		if s.Limit > 0 && len(out) == s.Limit {
			break
		}
	}
	return out, nil
}
