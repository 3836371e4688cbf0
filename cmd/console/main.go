package main

import (
	"courtsync/internal/audit"
	"courtsync/internal/auth"
	bookingsrepo "courtsync/internal/bookings/repository"
	cancellationshandler "courtsync/internal/cancellations/handler"
	cancellationsrepo "courtsync/internal/cancellations/repository"
	cancellationsservice "courtsync/internal/cancellations/service"
	courtshandler "courtsync/internal/courts/handler"
	courtsservice "courtsync/internal/courts/service"
	eventshandler "courtsync/internal/events/handler"
	eventsrepo "courtsync/internal/events/repository"
	eventsservice "courtsync/internal/events/service"
	usershandler "courtsync/internal/users/handler"
	usersrepo "courtsync/internal/users/repository"
	usersservice "courtsync/internal/users/service"
	"courtsync/pkg/app"
	"courtsync/pkg/config"
	"courtsync/pkg/kafka"

	"github.com/joho/godotenv"
)

const ServiceName = "console"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting console service")

	recorder := initRecorder(cfg)

	bookings := bookingsrepo.NewMongoBookingRepository(cfg)
	cancellations := cancellationsrepo.NewMongoCancellationRepository(cfg)
	events := eventsrepo.NewMongoEventRepository(cfg)
	users := usersrepo.NewMongoUserRepository(cfg)
	accounts := auth.NewMongoAccountRepository(cfg)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL)
	authService := auth.NewAuthService(accounts, tokens, auth.NewBcryptPasswordHasher(), cfg)
	guard := auth.NewMiddleware(tokens, authService, cfg.Log)

	cancellationService := cancellationsservice.NewCancellationService(cancellations, bookings, recorder, cfg)
	eventService := eventsservice.NewEventService(events, users, recorder, cfg)
	userService := usersservice.NewUserService(users, bookings, events, cfg)
	courtService := courtsservice.NewCourtService(bookings, cfg)

	cfg.Log.Info("Console services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		auth.NewHandler(authService, guard, cfg.Log),
		cancellationshandler.NewCancellationHandler(cancellationService, guard, cfg.Log),
		eventshandler.NewEventHandler(eventService, guard, cfg.Log),
		usershandler.NewUserHandler(userService, guard, cfg.Log),
		courtshandler.NewCourtHandler(courtService, guard, cfg.Log),
	)
	serverApp.Run()
}

func initRecorder(cfg *config.Config) *audit.Recorder {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, audit trail disabled")
		return audit.NewNopRecorder(cfg.Log)
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create audit producer", "error", err)
	}

	cfg.Log.Info("Audit trail enabled", "topic", cfg.AuditTopic)
	return audit.NewRecorder(producer, cfg.Log)
}
