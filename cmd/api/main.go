package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/villa-booking-api/internal/config"
	jwtinfra "github.com/villa-booking-api/internal/infrastructure/jwt"
	"github.com/villa-booking-api/internal/infrastructure/postgres"
	s3infra "github.com/villa-booking-api/internal/infrastructure/s3"
	"github.com/villa-booking-api/internal/infrastructure/smtp"
	"github.com/villa-booking-api/internal/infrastructure/sns"
	transporthttp "github.com/villa-booking-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer db.Close()

	// Creates tables, indexes and the booking exclusion constraint if missing.
	if err := postgres.Bootstrap(context.Background(), db); err != nil {
		log.Fatalf("postgres bootstrap: %v", err)
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for villa images and payment proofs.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    postgres.NewUserRepo(db),
		VillaRepo:   postgres.NewVillaRepo(db),
		BookingRepo: postgres.NewBookingRepo(db),
		ReviewRepo:  postgres.NewReviewRepo(db),
		ContactRepo: postgres.NewContactRepo(db),
		S3Store:     s3Store,
		Mailer:      mailer,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
