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
	echomw "github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	loggingmw "github.com/Skotchmaster/medimarket/pkg/middleware/logging"

	catalogcfg "github.com/Skotchmaster/medimarket/services/catalog/internal/config"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/repo"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/search"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/service"
)

func main() {
	if err := godotenv.Load("services/catalog/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := catalogcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	repo := &repo.GormRepo{DB: db}

	var index search.Index = search.DB{Repo: repo}
	if cfg.ESURL != "" {
		client, err := search.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			index = search.NewES(client)
		}
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

	svc := &service.CatalogService{Repo: repo, Index: index, Events: publisher}
	handler := &httpserver.CatalogHTTP{Svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: handler,
		JWTSecret:      cfg.JWTAccessSecret,
		DB:             db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = pkgdb.Close(db)

	logger.Info("catalog stopped")
}
