package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"beautybook/internal/app"
	"beautybook/internal/config"
	"beautybook/internal/database"
	"beautybook/internal/domain/auth"
	"beautybook/internal/domain/notification"
	"beautybook/internal/pkg/cache"
	"beautybook/internal/pkg/kafka"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal(err, "config load failed")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(err, "db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err, "migration failed")
	}

	// slot availability cache: redis when configured, in-process otherwise
	var store cache.Cache
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal(err, "redis ping failed", "addr", cfg.Redis.Addr)
		}
		defer rc.Close()
		store = rc
		log.Info("slot cache: redis", "addr", cfg.Redis.Addr)
	} else {
		store = cache.NewMemoryCache(cfg.Redis.SlotsTTL, 2*cfg.Redis.SlotsTTL)
		log.Info("slot cache: in-memory")
	}

	var sender mailer.Sender
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Warn("SMTP_HOST is empty, mail goes to the log")
		sender = mailer.NewConsoleSender(log)
	}

	var publisher notification.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info("booking events: kafka", "topic", producer.Topic())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := app.New(app.Options{
		Config:    cfg,
		DB:        db,
		Log:       log,
		Registry:  reg,
		Cache:     store,
		Mail:      sender,
		Publisher: publisher,
	})

	cleanup, err := auth.NewCleanupJob(api.Auth, cfg.Cleanup.Schedule, cfg.Cleanup.Retention, log)
	if err != nil {
		log.Fatal(err, "cleanup job setup failed", "schedule", cfg.Cleanup.Schedule)
	}
	cleanup.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.HTTPAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "http shutdown")
	}
	cleanup.Stop()
	if err := api.Dispatcher.Close(ctx); err != nil {
		log.Error(err, "notifications not drained")
	}
	if err := database.Close(db); err != nil {
		log.Error(err, "close database")
	}
	log.Info("bye")
}
