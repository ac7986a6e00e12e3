package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/AnthoniusHendriyanto/academy-service/config"
	"github.com/AnthoniusHendriyanto/academy-service/db"
	academichandler "github.com/AnthoniusHendriyanto/academy-service/internal/academic/handler"
	academicrepo "github.com/AnthoniusHendriyanto/academy-service/internal/academic/repository/postgres"
	academicservice "github.com/AnthoniusHendriyanto/academy-service/internal/academic/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/handler"
	repo "github.com/AnthoniusHendriyanto/academy-service/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/service"
	"github.com/AnthoniusHendriyanto/academy-service/internal/events"
	"github.com/AnthoniusHendriyanto/academy-service/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("Database: %v", err)
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		log.Fatalf("Migration: %v", err)
	}

	publisher, closeNats := newPublisher(cfg)
	defer closeNats()

	limiter, closeRedis := newRateLimiter(cfg)
	defer closeRedis()

	// Auth
	userRepo := repo.NewUserRepository(dbPool)
	attemptRepo := repo.NewLoginAttemptRepository(dbPool)
	otpRepo := repo.NewOtpRepository(dbPool)
	refreshRepo := repo.NewRefreshTokenRepository(dbPool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryDays)
	hasher := service.NewBcryptHasher(cfg.SaltRounds)
	userService := service.NewUserService(userRepo, hasher)
	authService := service.NewAuthService(
		userRepo,
		service.NewAttemptTracker(attemptRepo, cfg.LoginMaxAttempts, cfg.LoginLockoutMinutes),
		service.NewOtpService(otpRepo, cfg.OtpExpirationMinutes),
		refreshRepo,
		tokenService,
		hasher,
		publisher,
	)
	cookies := handler.NewCookieWriter(cfg.IsProduction(), tokenService.GetAccessTokenExpiry(), tokenService.GetRefreshTokenExpiry())

	// Academic
	countryRepo := academicrepo.NewCountryRepository(dbPool)
	studentRepo := academicrepo.NewStudentRepository(dbPool)
	subjectRepo := academicrepo.NewSubjectRepository(dbPool)
	enrollmentRepo := academicrepo.NewEnrollmentRepository(dbPool)
	gradeRepo := academicrepo.NewGradeRepository(dbPool)

	academic := academichandler.Handlers{
		Students:  academichandler.NewStudentHandler(academicservice.NewStudentService(studentRepo, subjectRepo, enrollmentRepo, countryRepo)),
		Subjects:  academichandler.NewSubjectHandler(academicservice.NewSubjectService(subjectRepo, studentRepo, gradeRepo, userRepo)),
		Grades:    academichandler.NewGradeHandler(academicservice.NewGradeService(gradeRepo, enrollmentRepo, subjectRepo)),
		Countries: academichandler.NewCountryHandler(academicservice.NewCountryService(countryRepo, nil)),
	}

	janitor := service.NewJanitor(refreshRepo, otpRepo, time.Duration(cfg.CleanupIntervalMinutes)*time.Minute)
	go janitor.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "academy-service",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	handler.RegisterRoutes(api, handler.NewAuthHandler(authService, userService, cookies), handler.NewUserHandler(userService), tokenService, limiter)
	academichandler.RegisterRoutes(api, academic, tokenService)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("Shutdown: %v", err)
		}
	}()

	log.Infof("Listening on :%s (%s)", cfg.Port, cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("Server: %v", err)
	}
}

// newPublisher connects to NATS when NATS_URL is set and falls back to a
// no-op publisher otherwise.
func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.NatsURL == "" {
		return events.NopPublisher{}, func() {}
	}

	nc, err := events.Connect(cfg.NatsURL, "academy-service")
	if err != nil {
		log.Warnf("Security events disabled: %v", err)
		return events.NopPublisher{}, func() {}
	}

	return events.NewNatsPublisher(nc), func() {
		if err := nc.Drain(); err != nil {
			log.Warnf("NATS drain: %v", err)
		}
	}
}

// newRateLimiter returns a nil limiter, which lets every request through,
// when REDIS_ADDR is unset.
func newRateLimiter(cfg *config.Config) (*middleware.RateLimiter, func()) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, auth rate limiting disabled")
		return nil, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	limiter := middleware.NewRateLimiter(client, cfg.RateLimitMax, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)

	return limiter, func() {
		if err := client.Close(); err != nil {
			log.Warnf("Redis close: %v", err)
		}
	}
}
