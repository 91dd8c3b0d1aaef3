package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/harroway/housemate/internal/backup"
	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/email"
	"github.com/harroway/housemate/internal/logging"
	"github.com/harroway/housemate/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("HOUSEMATE_LOG_LEVEL"), os.Getenv("HOUSEMATE_LOG_FORMAT"))

	port := envOr("HOUSEMATE_PORT", "8080")
	dbPath := envOr("HOUSEMATE_DB_PATH", "housemate.db")

	jwtSecret := os.Getenv("HOUSEMATE_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("HOUSEMATE_JWT_SECRET is required")
		os.Exit(1)
	}

	avatarDir := envOr("HOUSEMATE_AVATAR_DIR", "avatars")
	if err := os.MkdirAll(avatarDir, 0o755); err != nil {
		logger.Error("create avatar directory", "path", avatarDir, "error", err)
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer := email.NewClient(
		os.Getenv("HOUSEMATE_POSTMARK_TOKEN"),
		os.Getenv("HOUSEMATE_FROM_EMAIL"),
		envOr("HOUSEMATE_APP_URL", "http://localhost:"+port),
	)

	cfg := server.Config{
		JWTSecret:       jwtSecret,
		AvatarDir:       avatarDir,
		VAPIDPublicKey:  os.Getenv("HOUSEMATE_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("HOUSEMATE_VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: envOr("HOUSEMATE_VAPID_SUBSCRIBER", "mailto:admin@localhost"),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("HOUSEMATE_S3_ENDPOINT"),
				Bucket:    os.Getenv("HOUSEMATE_S3_BUCKET"),
				Region:    envOr("HOUSEMATE_S3_REGION", "us-east-1"),
				AccessKey: os.Getenv("HOUSEMATE_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("HOUSEMATE_S3_SECRET_KEY"),
			},
			DBPath:        dbPath,
			Passphrase:    os.Getenv("HOUSEMATE_BACKUP_PASSPHRASE"),
			ScheduleHour:  envIntOr("HOUSEMATE_BACKUP_HOUR", 3),
			RetentionDays: envIntOr("HOUSEMATE_BACKUP_RETENTION_DAYS", 30),
		},
	}

	srv := server.New(db, cfg, mailer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
	}
	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	// purge stale rate-limit buckets hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("housemate listening", "addr", fmt.Sprintf("http://localhost:%s", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
