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

	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	loggingmw "github.com/Skotchmaster/medimarket/pkg/middleware/logging"

	schedulingcfg "github.com/Skotchmaster/medimarket/services/scheduling/internal/config"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/httpserver"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/models"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/repo"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/service"
)

func main() {
	if err := godotenv.Load("services/scheduling/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := schedulingcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var doctors service.Doctors = catalogclient.NewClient(cfg.CatalogURL)
	if cfg.RedisURL != "" {
		cache, err := catalogclient.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer cache.Close()
		doctors = &catalogclient.CachedDoctors{Next: doctors, Cache: cache}
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

	repo := &repo.GormRepo{DB: db}
	svc := &service.AppointmentService{Repo: repo, Doctors: doctors, Events: publisher}
	handler := &httpserver.SchedulingHTTP{Svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		SchedulingHandler: handler,
		JWTSecret:         cfg.JWTAccessSecret,
		DB:                db,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("scheduling listening", "addr", srv.Addr)
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

	logger.Info("scheduling stopped")
}
