package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/email-access-policy/internal/config"
	jwtinfra "github.com/email-access-policy/internal/infrastructure/jwt"
	"github.com/email-access-policy/internal/infrastructure/memory"
	"github.com/email-access-policy/internal/infrastructure/sns"
	"github.com/email-access-policy/internal/metrics"
	transporthttp "github.com/email-access-policy/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	// JWT verifier for admin routes (optional; admin routes stay closed without it).
	var tokenVerifier *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		tokenVerifier = p
	} else {
		log.Printf("WARN: JWT provider not available, admin routes disabled: %v", err)
	}

	// SNS appeal notifier (optional, graceful fallback).
	var notifier sns.AppealNotifier
	if n, err := sns.NewNotifier(cfg); err == nil {
		notifier = n
	} else {
		log.Printf("WARN: SNS notifier not available: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := &transporthttp.Deps{
		Policy:         memory.NewPolicyStore(policy),
		AllowedDomains: policy.AllowedAuthDomains,
		UserRepo:       memory.NewUserRepo(),
		SessionRepo:    memory.NewSessionRepo(),
		Notifier:       notifier,
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
		Gatherer:       prometheus.DefaultGatherer,
	}
	if tokenVerifier != nil {
		deps.TokenVerifier = tokenVerifier
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
	log.Println("Server stopped")
}
