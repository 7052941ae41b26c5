package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	marketapp "github.com/graysurf/nils-alfredworkflow-sub001/internal/application/market"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

// NewMarketRoot builds the market-cli command tree.
func NewMarketRoot(s *cli.Session) *cobra.Command {
	root := cli.NewRoot(s, "market-cli", "FX and crypto conversions for Alfred")
	root.AddCommand(
		newMarketConvertCommand(s, domain.MarketFX, "Convert between fiat currencies"),
		newMarketConvertCommand(s, domain.MarketCrypto, "Price a crypto asset in another currency"),
		newCacheCommand(s, marketapp.ToolName, func() (string, func(string) uint64, error) {
			svc, err := newMarketService(s)
			if err != nil {
				return "", nil, err
			}
			return svc.Config.CacheRoot, svc.TTLFor, nil
		}),
		NewVersionCommand(s, "market-cli"),
	)
	return root
}

func newMarketService(s *cli.Session) (*marketapp.Service, error) {
	cfg, err := config.LoadMarket(s.Env)
	if err != nil {
		return nil, err
	}
	return &marketapp.Service{
		Config:     cfg,
		HTTPClient: s.HTTPClient(cfg.Timeout),
		Now:        s.Clock(),
		Sleeper:    s.Sleeper,
		Logger:     s.Logger,
	}, nil
}

func newMarketConvertCommand(s *cli.Session, kind domain.MarketKind, short string) *cobra.Command {
	var req marketapp.Request
	id := "market." + string(kind)
	cmd := cli.Command(s, id, string(kind), short, func(ctx context.Context) (output.Response, error) {
		svc, err := newMarketService(s)
		if err != nil {
			return output.Response{}, err
		}
		convert := svc.FX
		if kind == domain.MarketCrypto {
			convert = svc.Crypto
		}
		res, err := convert(ctx, req)
		if err != nil {
			return output.Response{}, err
		}
		return marketResponse(res, s.Clock()()), nil
	})
	cmd.Flags().StringVar(&req.Base, "base", "", "Base currency or asset (e.g. USD, BTC)")
	cmd.Flags().StringVar(&req.Quote, "quote", "", "Quote currency (e.g. TWD)")
	cmd.Flags().StringVar(&req.Amount, "amount", "1", "Amount of the base to convert")
	return cmd
}

func marketResponse(res domain.MarketResult, now time.Time) output.Response {
	headline := fmt.Sprintf("%s %s = %s %s", groupDigits(res.Amount), res.Base, groupDigits(res.Converted), res.Quote)
	detail := fmt.Sprintf("1 %s = %s %s · %s · %s",
		res.Base, res.UnitPrice, res.Quote, res.Provider, cacheNote(res.Cache, res.FetchedAt, now))

	return output.Response{
		Result: res,
		Feedback: func() domain.Feedback {
			return domain.Feedback{Items: []domain.Item{{
				Title:    headline,
				Subtitle: detail,
				Arg:      res.Converted,
			}}}
		},
		Human: cli.HumanLines(headline, detail),
	}
}
