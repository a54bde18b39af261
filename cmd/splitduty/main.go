package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/navidakram1/splitduty/internal/archive"
	"github.com/navidakram1/splitduty/internal/database"
	"github.com/navidakram1/splitduty/internal/logging"
	"github.com/navidakram1/splitduty/internal/push"
	"github.com/navidakram1/splitduty/internal/server"
)

func main() {
	genKeys := flag.Bool("generate-vapid-keys", false, "print a fresh VAPID key pair and exit")
	flag.Parse()

	if *genKeys {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate VAPID keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("SPLITDUTY_VAPID_PUBLIC_KEY=%s\n", pub)
		fmt.Printf("SPLITDUTY_VAPID_PRIVATE_KEY=%s\n", priv)
		return
	}

	logger := logging.Setup(os.Getenv("SPLITDUTY_LOG_LEVEL"), os.Getenv("SPLITDUTY_LOG_FORMAT"))

	port := os.Getenv("SPLITDUTY_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("SPLITDUTY_DB_PATH")
	if dbPath == "" {
		dbPath = "splitduty.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	archiveCfg := archive.Config{
		Endpoint:   os.Getenv("SPLITDUTY_S3_ENDPOINT"),
		Bucket:     os.Getenv("SPLITDUTY_S3_BUCKET"),
		Region:     os.Getenv("SPLITDUTY_S3_REGION"),
		AccessKey:  os.Getenv("SPLITDUTY_S3_ACCESS_KEY"),
		SecretKey:  os.Getenv("SPLITDUTY_S3_SECRET_KEY"),
		Passphrase: os.Getenv("SPLITDUTY_ARCHIVE_PASSPHRASE"),
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("SPLITDUTY_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("SPLITDUTY_VAPID_PRIVATE_KEY"),
	}
	if pushCfg.VAPIDPublicKey == "" {
		logger.Info("VAPID keys not configured, push notifications disabled")
	}

	srv := server.New(db, archiveCfg, pushCfg, logger)

	// Expired rate-limit windows accumulate if nobody sweeps them.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
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
		fmt.Printf("SplitDuty running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
