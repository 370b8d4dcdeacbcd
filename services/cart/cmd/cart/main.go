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
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	loggingmw "github.com/Skotchmaster/medimarket/pkg/middleware/logging"
	"github.com/Skotchmaster/medimarket/services/cart/internal/config"
	"github.com/Skotchmaster/medimarket/services/cart/internal/httpserver"
	"github.com/Skotchmaster/medimarket/services/cart/internal/models"
	"github.com/Skotchmaster/medimarket/services/cart/internal/repo"
	"github.com/Skotchmaster/medimarket/services/cart/internal/service"
)

func main() {
	if err := godotenv.Load("services/cart/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.AutoMigrate(&models.CartItem{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	Repo := &repo.GormRepo{
		DB: db,
	}

	cartService := &service.CartService{
		Repo:      Repo,
		Medicines: catalogclient.NewClient(cfg.CatalogURL),
		Events:    publisher,
	}

	cartHandler := &httpserver.CartHTTP{
		Svc: cartService,
	}

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: cartHandler,
		JWTSecret:   cfg.JWTAccessSecret,
		DB:          db,
	})

	go func() {
		logger.Info("starting cart service", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("server stopped")
}
