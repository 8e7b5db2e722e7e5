package main

import (
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/startrend/internal/config"
	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/github"
	"github.com/rohankatakam/startrend/internal/trending"
)

// buildService validates cfg for ctx and assembles client, counter, cache, aggregator and service
func buildService(cfg *config.Config, ctx config.ValidationContext, logger *logrus.Logger) (*trending.Service, error) {
	for _, w := range cfg.Validate(ctx).Warnings {
		logger.Warn(w)
	}
	if err := cfg.Require(ctx); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.ConfigErrorf("%v", err)
	}

	client, err := github.NewClient(github.Options{
		BaseURL:           cfg.GitHub.BaseURL,
		Token:             cfg.GitHub.Token,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		Timeout:           cfg.GitHub.Timeout,
		SearchPerPage:     cfg.GitHub.SearchPerPage,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}
	if cfg.GitHub.Token == "" {
		logger.Debug("no GitHub token configured, using unauthenticated quota")
	}

	counter := trending.NewCounter(client, cfg.Trending.EventsPerPage, cfg.Trending.MaxEventPages, logger)
	aggregator := trending.NewAggregator(counter, trending.NewMemoryCache(), cfg.Trending.Concurrency, logger)

	return trending.NewService(client, aggregator, logger, trending.WithLocation(loc)), nil
}
