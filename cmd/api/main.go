package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fundwatch/internal/bootstrap"
	"fundwatch/internal/http/handlers"
	httpapi "fundwatch/internal/http/httpapi"
	"fundwatch/internal/infra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	services, err := bootstrap.Build(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build services")
	}
	defer services.Close()

	app := handlers.NewApp(services.Donors, services.Roster, &logger, cfg.HasFECCredentials())
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
