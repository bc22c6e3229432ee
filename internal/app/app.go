package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"bond-rv-analyzer/internal/config"
	"bond-rv-analyzer/internal/marketdata"
	"bond-rv-analyzer/internal/metrics"
	"bond-rv-analyzer/internal/scheduler"
	"bond-rv-analyzer/internal/server"
	"bond-rv-analyzer/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// newResolver loads the market data tables by provenance priority:
// bundle file first, then the live endpoint, then packaged defaults.
// A live fetch failure falls back to defaults rather than aborting.
func (a *App) newResolver(ctx context.Context) (*marketdata.Resolver, error) {
	md := a.Config.MarketData

	if md.BundleFile != "" {
		bundle, err := marketdata.LoadBundleFile(md.BundleFile)
		if err != nil {
			return nil, fmt.Errorf("load market data file: %w", err)
		}
		a.Logger.Info().Str("path", md.BundleFile).Msg("market data loaded from file")
		return marketdata.NewResolver(bundle.MergedWith(marketdata.Defaults()), marketdata.SourceCSV, a.Logger), nil
	}

	if md.LiveURL != "" {
		bundle, err := a.newLiveFetcher().FetchBundle(ctx)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("live market data unavailable; using packaged defaults")
			return marketdata.NewResolver(marketdata.Defaults(), marketdata.SourceFallback, a.Logger), nil
		}
		a.Logger.Info().Str("url", md.LiveURL).Msg("market data loaded from live endpoint")
		return marketdata.NewResolver(bundle, marketdata.SourceLive, a.Logger), nil
	}

	return marketdata.NewResolver(marketdata.Defaults(), marketdata.SourceConfig, a.Logger), nil
}

func (a *App) newLiveFetcher() *marketdata.LiveFetcher {
	md := a.Config.MarketData
	return marketdata.NewLiveFetcher(marketdata.LiveOptions{
		BaseURL:   md.LiveURL,
		Timeout:   md.RequestTimeout,
		RetryMax:  md.RetryMax,
		UserAgent: md.UserAgent,
	}, a.Logger)
}

// Serve runs the HTTP analysis service until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resolver, err := a.newResolver(ctx)
	if err != nil {
		return err
	}

	m := metrics.New()
	analyzer := service.New(a.Config, resolver, m, a.Logger)
	srv := server.New(a.Config.Server, analyzer, resolver, m, a.Logger)

	// Live tables go stale; refresh them on a fixed interval. File and
	// packaged tables stay as loaded.
	if a.Config.MarketData.LiveURL != "" && a.Config.MarketData.RefreshInterval > 0 {
		fetcher := a.newLiveFetcher()
		sched := scheduler.New(scheduler.Options{Interval: a.Config.MarketData.RefreshInterval}, a.Logger)
		go func() {
			err := sched.Run(ctx, func(ctx context.Context) error {
				bundle, err := fetcher.FetchBundle(ctx)
				if err != nil {
					return err
				}
				resolver.Swap(bundle, marketdata.SourceLive)
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error().Err(err).Msg("refresh loop terminated")
			}
		}()
	}

	a.Logger.Info().Msg("starting analysis service")
	if err := srv.Run(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("analysis service stopped")
	return nil
}
