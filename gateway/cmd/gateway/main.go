package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/medimarket/gateway/internal/config"
	"github.com/Skotchmaster/medimarket/gateway/internal/httpserver"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/pkg/middleware/csrf"
)

func main() {
	if err := godotenv.Load("gateway/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "gateway")
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.SecureCookies
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready"}

	if err := httpserver.Register(e, &httpserver.Deps{
		CatalogURL:    cfg.CatalogURL,
		SchedulingURL: cfg.SchedulingURL,
		CartURL:       cfg.CartURL,
		OrderURL:      cfg.OrderURL,
		JWTSecret:     cfg.JWTSecret,
		CSRFConfig:    csrfCfg,
		Logger:        logger,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		logger.Info("gateway listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("gateway stopped")
}
