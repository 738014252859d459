package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"stoproom/internal/app"
	"stoproom/internal/config"
	"stoproom/internal/domain"
	"stoproom/internal/oracle"
	"stoproom/internal/store"
	httpTransport "stoproom/internal/transport/http"
)

func main() {
	// A .env file is optional; config falls back to real env vars
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)

	logger.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Msg("starting stop game server")

	categories, err := loadCategories(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load category overrides")
	}

	var orc oracle.Oracle
	if cfg.Oracle.BaseURL != "" {
		client := oracle.NewClient(cfg.Oracle.BaseURL, cfg.Oracle.Timeout)
		if cfg.Oracle.APIKey != "" {
			client.SetHeader("Authorization", "Bearer "+cfg.Oracle.APIKey)
		}
		orc = client
		logger.Info().Str("baseUrl", cfg.Oracle.BaseURL).Msg("using http word oracle")
	} else {
		orc = oracle.NewWordlist()
		logger.Info().Msg("using built-in wordlist oracle")
	}

	st := store.New(logger)
	hub := app.NewRoomHub(st, orc, clockwork.NewRealClock(), app.HubOptions{
		RoomCodeLength:   cfg.Game.RoomCodeLength,
		MaxPlayers:       cfg.Game.MaxPlayers,
		RoundDuration:    cfg.Game.RoomRoundTime,
		OracleTimeout:    cfg.Oracle.Timeout,
		StaleRoomTimeout: cfg.Game.StaleRoomTimeout,
		Categories:       categories,
	}, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func loadCategories(cfg *config.Config) (map[domain.Language][]string, error) {
	raw, err := cfg.LoadCategoryOverrides()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	categories := make(map[domain.Language][]string, len(raw))
	for lang, cats := range raw {
		categories[domain.ParseLanguage(lang)] = cats
	}
	return categories, nil
}
