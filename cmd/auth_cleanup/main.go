package main

import (
	"context"
	"flag"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"beautybook/internal/config"
	"beautybook/internal/database"
	"beautybook/internal/domain/auth"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/mailer"
	"beautybook/internal/pkg/metrics"
)

// One-shot sweep of registrations whose code expired without confirmation.
// Meant for an external scheduler when the API's own cron is disabled.
func main() {
	retention := flag.Duration("retention", -1, "extra grace after code expiry (defaults to CLEANUP_RETENTION)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal(err, "config load failed")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel})

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(err, "db connect failed")
	}

	svc := auth.NewService(
		auth.NewUserRepository(db),
		nil,
		mailer.NewVerificationMailer(mailer.NewConsoleSender(log)),
		auth.Config{CodePepper: cfg.Auth.VerificationCodePepper, CodeTTL: cfg.Auth.VerifyCodeTTL},
		log,
		metrics.New(prometheus.NewRegistry()),
	)

	grace := cfg.Cleanup.Retention
	if *retention >= 0 {
		grace = *retention
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.SweepExpiredUnverified(ctx, grace)
	if err != nil {
		log.Fatal(err, "sweep failed")
	}
	log.Info("auth cleanup completed", "unverified_deleted", n, "retention", grace.String())
}
