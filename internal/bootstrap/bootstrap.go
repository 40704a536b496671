// Package bootstrap assembles the disclosure client and the donor and roster
// services from configuration. The API server and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fundwatch/internal/donors"
	"fundwatch/internal/infra"
	"fundwatch/internal/providers/fec"
	"fundwatch/internal/roster"
)

type Services struct {
	FEC    *fec.Client
	Donors *donors.Service
	Roster *roster.Service
	redis  *redis.Client
}

// Build wires every service. Redis is optional; without REDIS_URL the roster
// is cached in memory.
func Build(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (*Services, error) {
	client, err := fec.NewClient(fec.Options{
		APIKey:            cfg.FECAPIKey,
		BaseURL:           cfg.FECBaseURL,
		Logger:            logger,
		RequestTimeout:    cfg.FECTimeout,
		RequestsPerSecond: cfg.FECRequestsPerSec,
		Burst:             cfg.FECBurst,
	})
	if err != nil {
		return nil, err
	}
	if !client.HasCredentials() {
		logger.Warn().Msg("FEC_API_KEY is not set; donor and roster lookups will use fallback policies")
	}

	classifier := donors.DefaultClassifier()
	if cfg.DonorTypeRulesPath != "" {
		classifier, err = donors.LoadClassifier(cfg.DonorTypeRulesPath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.DonorTypeRulesPath).Strs("types", classifier.Types()).Msg("donor type rules loaded")
	}
	matcher, err := donors.MatcherByName(cfg.DonorNameMatching)
	if err != nil {
		return nil, err
	}

	svc := &Services{FEC: client}

	var store roster.Store = roster.NewMemoryStore(cfg.RosterTTL)
	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("roster store: %w", err)
	}
	if rdb != nil {
		svc.redis = rdb
		store = roster.NewRedisStore(rdb, roster.DefaultRedisKey, cfg.RosterTTL)
		logger.Info().Msg("roster cache backed by redis")
	}

	svc.Donors = donors.NewService(donors.Options{
		Source:      client,
		Logger:      logger,
		Classifier:  classifier,
		Matcher:     matcher,
		Threshold:   cfg.SmallDonation,
		TopN:        cfg.DonorTopN,
		PageSize:    cfg.DonorPageSize,
		MaxPages:    cfg.DonorMaxPages,
		Concurrency: cfg.DonorConcurrency,
		Fallback:    cfg.DonorFallback,
	})
	svc.Roster = roster.NewService(roster.Options{
		Directory: client,
		Store:     store,
		Logger:    logger,
		Fallback:  cfg.RosterFallback,
	})
	return svc, nil
}

// Close releases the Redis connection, if any.
func (s *Services) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
