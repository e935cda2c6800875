package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rollcall-go-api/internal/config"
	"github.com/noah-isme/rollcall-go-api/internal/database"
	"github.com/noah-isme/rollcall-go-api/internal/handler"
	"github.com/noah-isme/rollcall-go-api/internal/middleware"
	"github.com/noah-isme/rollcall-go-api/internal/repository"
	"github.com/noah-isme/rollcall-go-api/internal/roster"
	"github.com/noah-isme/rollcall-go-api/internal/router"
	"github.com/noah-isme/rollcall-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Drain()

	validate := validator.New(validator.WithRequiredStructEnabled())

	registry := roster.NewRegistry(db, logger)
	studentRepo := repository.NewStudentRosterRepository(registry)
	subjectRepo := repository.NewSubjectRepository(registry)
	attendanceRepo := repository.NewAttendanceRepository(registry)

	promotionService := service.NewPromotionService(studentRepo, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, redisClient, cfg.AbsenteeCacheTTL, validate, logger)
	notificationService := service.NewNotificationService(attendanceService, studentRepo, natsConn, logger)

	promotionHandler := handler.NewPromotionHandler(promotionService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	subjectHandler := handler.NewSubjectHandler(subjectService, logger)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		PromotionHandler:  promotionHandler,
		StudentHandler:    studentHandler,
		SubjectHandler:    subjectHandler,
		AttendanceHandler: attendanceHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
