package main

import (
	"github.com/greatbrands/ticketing/config"
	"github.com/greatbrands/ticketing/internal/consumer"
	"github.com/greatbrands/ticketing/internal/handler"
	"github.com/greatbrands/ticketing/internal/middleware"
	"github.com/greatbrands/ticketing/internal/notifier"
	"github.com/greatbrands/ticketing/internal/repository"
	"github.com/greatbrands/ticketing/internal/service"
	"github.com/greatbrands/ticketing/pkg/database"
	"github.com/greatbrands/ticketing/pkg/logger"
	"github.com/greatbrands/ticketing/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("database setup failed")
	}

	// Notification sink: RabbitMQ when configured, otherwise a no-op.
	notify := notifier.NewNoop()
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer publisher.Close()
		notify = notifier.NewAMQPNotifier(publisher, log)

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.WithError(err).Fatal("failed to set up RabbitMQ consumer")
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.WithError(err).Fatal("failed to start consuming notifications")
		}
		consumer.NewNotificationConsumer(log).Start(msgs)
	} else {
		log.Warn("RABBITMQ_URL not set, notifications disabled")
	}

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	waitingRepo := repository.NewWaitingListRepository(db)

	// Allocation engine
	allocationSvc := service.NewAllocationService(eventRepo, bookingRepo, waitingRepo, notify)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "ticketing"})
	})

	handler.NewEventHandler(allocationSvc).RegisterRoutes(e, middleware.RequireAuth(cfg.JWTSecret))

	log.WithField("port", cfg.ServerPort).Info("ticketing service starting")
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
