package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-pattern-api/config"
	"stock-pattern-api/internal/ai/llm"
	"stock-pattern-api/internal/analysis"
	"stock-pattern-api/internal/api"
	"stock-pattern-api/internal/logging"
	"stock-pattern-api/internal/marketdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:      cfg.LoggingConfig.Level,
		Output:     cfg.LoggingConfig.Output,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
		MaxSizeMB:  cfg.LoggingConfig.MaxSizeMB,
		MaxBackups: cfg.LoggingConfig.MaxBackups,
		MaxAgeDays: cfg.LoggingConfig.MaxAgeDays,
	})
	logger.Info().Msg("starting stock pattern analysis API")

	var provider marketdata.Provider
	if cfg.MarketDataConfig.MockMode {
		logger.Warn().Msg("mock mode enabled, serving synthetic price data")
		provider = &marketdata.MockClient{}
	} else {
		provider = marketdata.NewClient(
			cfg.MarketDataConfig.BaseURL,
			time.Duration(cfg.MarketDataConfig.TimeoutSeconds)*time.Second,
			cfg.MarketDataConfig.RequestsPerMinute,
		)
	}

	var cache *marketdata.CachedProvider
	if cfg.RedisConfig.Enabled {
		cache = marketdata.NewCachedProvider(provider, marketdata.CacheConfig{
			Address:  cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
			PoolSize: cfg.RedisConfig.PoolSize,
			TTL:      time.Duration(cfg.RedisConfig.TTLMinutes) * time.Minute,
		}, logger)
		provider = cache
	}

	engine := analysis.NewEngine(analysis.Config{Workers: cfg.AnalysisConfig.Workers}, logger)

	var aiAnalyzer *llm.Analyzer
	if cfg.AIConfig.Enabled {
		aiAnalyzer = llm.NewAnalyzer(llm.NewClient(&llm.ClientConfig{
			Provider:    llm.Provider(cfg.AIConfig.Provider),
			APIKey:      cfg.AIConfig.APIKey(),
			Model:       cfg.AIConfig.Model,
			MaxTokens:   cfg.AIConfig.MaxTokens,
			Temperature: cfg.AIConfig.Temperature,
			Timeout:     time.Duration(cfg.AIConfig.TimeoutSeconds) * time.Second,
		}), logger)
		if !aiAnalyzer.IsConfigured() {
			logger.Warn().Str("provider", cfg.AIConfig.Provider).Msg("AI enabled but no API key set, commentary disabled")
		}
	}

	server := api.NewServer(
		cfg.ServerConfig,
		cfg.AuthConfig,
		cfg.AnalysisConfig,
		provider,
		engine,
		aiAnalyzer,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}

	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing cache")
		}
	}
	logger.Info().Msg("shutdown complete")
}
