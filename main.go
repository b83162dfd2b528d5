package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/staybook/config"
	"github.com/Eursukkul/staybook/internal/auth"
	"github.com/Eursukkul/staybook/internal/consumer"
	"github.com/Eursukkul/staybook/internal/handler"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/repository"
	"github.com/Eursukkul/staybook/internal/service"
	"github.com/Eursukkul/staybook/pkg/database"
	"github.com/Eursukkul/staybook/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// RabbitMQ: domain events out, activity log in. Optional.
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, consumer.ActivityQueue, consumer.ActivityBindings...)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewActivityConsumer(activityRepo).Start(ctx, msgs)
	} else {
		log.Println("[Events] RABBITMQ_URL not set, domain events disabled")
	}

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	userSvc := service.NewUserService(userRepo, propertyRepo, reservationRepo)
	propertySvc := service.NewPropertyService(propertyRepo, reservationRepo, publisher)
	reservationSvc := service.NewReservationService(reservationRepo, propertyRepo, publisher)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "staybook"})
	})

	api := e.Group("/api/v1")
	authn := middleware.JWTAuth(tokens, userSvc)

	handler.NewAuthHandler(userSvc, tokens).RegisterRoutes(api, authn)
	handler.NewUserHandler(userSvc).RegisterRoutes(api, authn)
	handler.NewPropertyHandler(propertySvc, reservationSvc).RegisterRoutes(api, authn)
	handler.NewReservationHandler(reservationSvc, propertySvc).RegisterRoutes(api, authn)
	handler.NewAdminHandler(reservationSvc, activityRepo).RegisterRoutes(api, authn)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Staybook starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
