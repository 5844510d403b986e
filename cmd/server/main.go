package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/config"
	"github.com/iliyamo/vehicle-parking/internal/database"
	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
	"github.com/iliyamo/vehicle-parking/internal/notify"
	"github.com/iliyamo/vehicle-parking/internal/queue"
	"github.com/iliyamo/vehicle-parking/internal/repository"
	"github.com/iliyamo/vehicle-parking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Redis is optional: caching and rate limiting degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	lotRepo := repository.NewLotRepo(db)
	resRepo := repository.NewReservationRepo(db)
	engine := booking.NewEngine(repository.NewSQLStore(db))

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	browseH := handler.NewBrowseHandler(lotRepo, engine)
	resH := handler.NewReservationHandler(engine, resRepo)
	adminLotH := handler.NewAdminLotHandler(engine, lotRepo, resRepo)
	adminUserH := handler.NewAdminUserHandler(userRepo, resRepo)
	adminRevH := handler.NewAdminRevenueHandler(resRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, cache)
	router.RegisterUser(e, resH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminLotH, adminUserH, adminRevH, cfg.JWTSecret)

	// Background workers: the queue consumer appends reservation events
	// to logs/reservation.log, the reminder job mails idle users daily.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()
	go notify.StartReminderJob(ctx, userRepo, notify.NewMailer(), 24*time.Hour)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
