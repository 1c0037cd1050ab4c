package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/haxsilu/science-zone/internal/booking"
	"github.com/haxsilu/science-zone/internal/config"
	"github.com/haxsilu/science-zone/internal/database"
	"github.com/haxsilu/science-zone/internal/handler"
	"github.com/haxsilu/science-zone/internal/layout"
	"github.com/haxsilu/science-zone/internal/queue"
	"github.com/haxsilu/science-zone/internal/repository"
	"github.com/haxsilu/science-zone/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use env vars
	cfg := config.Load()

	// A malformed hall layout must stop the process here, before any
	// booking can be validated against it.
	hall := layout.Default()
	if cfg.LayoutPath != "" {
		var err error
		if hall, err = layout.LoadFile(cfg.LayoutPath); err != nil {
			log.Fatalf("load layout: %v", err)
		}
	}
	log.Printf("hall layout loaded: %d rows, %d seats", len(hall.Rows()), hall.TotalSeats())

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, cfg.AdminUser, cfg.AdminPass, cfg.BcryptCost); err != nil {
		log.Fatalf("seed: %v", err)
	}

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	sessions := repository.NewSessionRepo(db)
	bookings := repository.NewBookingRepo(db)

	engine := booking.NewEngine(hall, sessions, bookings, cfg.ClaimLockWait)

	authHandler := handler.NewAuthHandler(users, students, cfg.JWTSecret, cfg.AccessTTLMin)
	sessionHandler := handler.NewSessionHandler(sessions, hall)
	bookingHandler := handler.NewBookingHandler(engine, sessions, students, bookings, cfg.AllowedGrades)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, claim rate limiting disabled")
	}

	go queue.StartSeatAuditConsumer()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, authHandler, sessionHandler, bookingHandler, cfg, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
