package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vybraa/vybraa-api-v1/config"
	"github.com/vybraa/vybraa-api-v1/internal/database"
	"github.com/vybraa/vybraa-api-v1/internal/jobs"
	"github.com/vybraa/vybraa-api-v1/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	adminEmail := getenv("ADMIN_EMAIL", "admin@vybraa.com")
	adminPassword := getenv("ADMIN_PASSWORD", "change-me")
	if err := database.SeedDefaults(db, adminEmail, adminPassword); err != nil {
		log.Fatalf("seed: %v", err)
	}

	deps := router.BuildDeps(cfg, db)
	engine := router.Setup(cfg, deps)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	reconciler := jobs.NewReconciler(deps.Store, deps.Settlement, deps.Verifiers, cfg.Jobs, cfg.BaseCurrency)
	reconciler.Start(jobCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopJobs()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
