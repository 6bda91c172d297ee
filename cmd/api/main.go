package main

import (
	adminhandler "github.com/Podhive/MVP/internal/admin/handler"
	adminservice "github.com/Podhive/MVP/internal/admin/service"
	"github.com/Podhive/MVP/internal/api"
	authhandler "github.com/Podhive/MVP/internal/auth/handler"
	authrepository "github.com/Podhive/MVP/internal/auth/repository"
	authservice "github.com/Podhive/MVP/internal/auth/service"
	availabilityhandler "github.com/Podhive/MVP/internal/availability/handler"
	availabilityrepository "github.com/Podhive/MVP/internal/availability/repository"
	availabilityservice "github.com/Podhive/MVP/internal/availability/service"
	bookinghandler "github.com/Podhive/MVP/internal/bookings/handler"
	bookingrepository "github.com/Podhive/MVP/internal/bookings/repository"
	bookingservice "github.com/Podhive/MVP/internal/bookings/service"
	bookingvalidator "github.com/Podhive/MVP/internal/bookings/validator"
	"github.com/Podhive/MVP/internal/events"
	"github.com/Podhive/MVP/internal/health"
	"github.com/Podhive/MVP/internal/notify"
	"github.com/Podhive/MVP/internal/reaper"
	reviewhandler "github.com/Podhive/MVP/internal/reviews/handler"
	reviewrepository "github.com/Podhive/MVP/internal/reviews/repository"
	reviewservice "github.com/Podhive/MVP/internal/reviews/service"
	studiohandler "github.com/Podhive/MVP/internal/studios/handler"
	studiorepository "github.com/Podhive/MVP/internal/studios/repository"
	studioservice "github.com/Podhive/MVP/internal/studios/service"
	studiovalidator "github.com/Podhive/MVP/internal/studios/validator"
	"github.com/Podhive/MVP/pkg/app"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/token"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting API service")

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	mailer := newMailer(cfg)
	publisher := newPublisher(cfg)

	availabilityRepo := availabilityrepository.NewMongoAvailabilityRepository(cfg)
	availabilitySvc := availabilityservice.NewAvailabilityService(availabilityRepo, cfg)

	userRepo := authrepository.NewMongoUserRepository(cfg)
	authSvc := authservice.NewAuthService(userRepo, tokens, mailer, cfg)

	studioRepo := studiorepository.NewMongoStudioRepository(cfg)
	studioSvc := studioservice.NewStudioService(
		studioRepo,
		availabilitySvc,
		studiovalidator.NewStudioValidator(cfg.Log),
		publisher,
		cfg,
	)

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		bookingrepository.NewMongoSlotLockRepository(cfg),
		availabilityRepo,
		studioRepo,
		userRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		mailer,
		publisher,
		cfg,
	)

	reviewSvc := reviewservice.NewReviewService(
		reviewrepository.NewMongoReviewRepository(cfg),
		bookingRepo,
		studioRepo,
		publisher,
		cfg,
	)

	adminSvc := adminservice.NewAdminService(
		studioRepo,
		availabilitySvc,
		bookingSvc,
		userRepo,
		mailer,
		publisher,
		cfg,
	)

	appHandler := api.NewHandler(
		authhandler.NewAuthHandler(authSvc, cfg.Log),
		studiohandler.NewStudioHandler(studioSvc, tokens, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, tokens, cfg.Log),
		reviewhandler.NewReviewHandler(reviewSvc, tokens, cfg.Log),
		adminhandler.NewAdminHandler(adminSvc, tokens, cfg.Log),
	)

	serverApp := app.NewApplication(cfg)
	serverApp.AddWorker(reaper.New(availabilityRepo, cfg))
	serverApp.SetApp(appHandler, health.NewHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

func newMailer(cfg *config.Config) notify.Mailer {
	if cfg.SMTPHost == "" {
		cfg.Log.Warn("SMTP not configured, emails will be suppressed")
		return notify.NewNoopMailer(cfg.Log)
	}
	return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.Log)
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("Kafka brokers not configured, lifecycle events will be dropped")
		return events.NoopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, ServiceName, cfg.Log)
}
