package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rrlogistics/config"
	"rrlogistics/db"
	"rrlogistics/db/mongo"
	"rrlogistics/db/postgres"
	"rrlogistics/events"
	"rrlogistics/handlers"
	"rrlogistics/logger"
	"rrlogistics/repository"
	"rrlogistics/routes"
	"rrlogistics/services"
)

type stores struct {
	consignments repository.ConsignmentRepository
	shipments    repository.ShipmentRepository
	invoices     repository.InvoiceRepository
	rateCards    repository.RateCardRepository
	rules        repository.PricingRuleRepository
	users        repository.UserRepository
	sequence     repository.Sequence
}

func main() {
	cfg := config.LoadConfig()

	if err := logger.Initialize(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("logger wasn't initialized: %s", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st stores
	var closers []db.DB

	switch db.DBType(cfg.DBType) {
	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
		if err := mg.Connect(ctx); err != nil {
			logger.Log.Fatal("mongo connection failed", zap.Error(err))
		}
		closers = append(closers, mg)

		database := mg.Database()
		if err := repository.EnsureIndexes(ctx, database); err != nil {
			logger.Log.Fatal("ensure indexes failed", zap.Error(err))
		}
		st = stores{
			consignments: repository.NewMongoConsignmentRepo(database),
			shipments:    repository.NewMongoShipmentRepo(database),
			invoices:     repository.NewMongoInvoiceRepo(database),
			rateCards:    repository.NewMongoRateCardRepo(database),
			rules:        repository.NewMongoPricingRuleRepo(database),
			users:        repository.NewMongoUserRepo(database),
			sequence:     repository.NewMongoSequence(database),
		}

	case db.Memory:
		logger.Log.Warn("using in-memory storage; data is lost on restart")
		st = stores{
			consignments: repository.NewMemoryConsignmentRepo(),
			shipments:    repository.NewMemoryShipmentRepo(),
			invoices:     repository.NewMemoryInvoiceRepo(),
			rateCards:    repository.NewMemoryRateCardRepo(),
			rules:        repository.NewMemoryPricingRuleRepo(),
			users:        repository.NewMemoryUserRepo(),
			sequence:     repository.NewMemorySequence(),
		}

	default:
		logger.Log.Fatal("DB_TYPE not supported", zap.String("db_type", cfg.DBType))
	}

	if db.DBType(cfg.SequenceBackend) == db.Postgres {
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(ctx); err != nil {
			logger.Log.Fatal("postgres connection failed", zap.Error(err))
		}
		closers = append(closers, pg)

		if err := db.RunMigrations(pg.Conn); err != nil {
			logger.Log.Fatal("migrations failed", zap.Error(err))
		}
		st.sequence = repository.NewPostgresSequence(pg.Conn)
	}

	maxSrNo, err := st.consignments.MaxSrNo(ctx)
	if err != nil {
		logger.Log.Fatal("read max sr_no failed", zap.Error(err))
	}
	if err := st.sequence.SeedAtLeast(ctx, repository.ConsignmentSerial, maxSrNo); err != nil {
		logger.Log.Fatal("seed serial sequence failed", zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBroker != "" {
		publisher = events.NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaTopic)
		logger.Log.Info("publishing events to kafka", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}

	queue := services.NewJobQueueService(ctx, cfg.QueueCapacity, cfg.QueueWorkers)

	resolver := services.NewRateResolver(st.users, st.rules)
	cascade := services.NewCascadeCreator(st.consignments, st.shipments, st.invoices, st.users)
	retrier := services.NewCascadeRetrier(cascade, queue, cfg.CascadeMaxAttempts, cfg.CascadeRetryDelay)
	dockets := services.NewDocketReconciler(st.consignments, st.shipments, st.invoices)

	consignmentService := services.NewConsignmentService(services.ConsignmentServiceDeps{
		Repo:      st.consignments,
		Sequence:  st.sequence,
		Resolver:  resolver,
		Cascade:   cascade,
		Retrier:   retrier,
		Sync:      services.NewSyncPropagator(st.shipments, st.invoices),
		Dockets:   dockets,
		Publisher: publisher,
	})
	authService := services.NewAuthService(st.users, services.NewJWTService(cfg.JWTSecret, cfg.TokenTTL))

	if err := authService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Log.Fatal("seed admin failed", zap.Error(err))
	}

	go services.NewCascadeReconciler(st.consignments, retrier, cfg.ReconcileInterval).Start(ctx)

	router := routes.SetupRoutes(routes.Handlers{
		Users:        &handlers.UserHandler{Service: authService},
		Consignments: &handlers.ConsignmentHandler{Service: consignmentService},
		Shipments:    &handlers.ShipmentHandler{Service: services.NewShipmentService(st.shipments, st.consignments, dockets)},
		Invoices: &handlers.InvoiceHandler{Service: services.NewInvoiceService(
			st.invoices, services.NewPaymentLedger(st.invoices), dockets, publisher)},
		RateCards: &handlers.RateCardHandler{Service: services.NewRateCardService(st.rateCards, st.users)},
		Pricing:   &handlers.PricingHandler{Service: services.NewPricingRuleService(st.rules)},
	}, authService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("server running", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("http shutdown", zap.Error(err))
	}
	queue.Shutdown()
	if err := publisher.Close(); err != nil {
		logger.Log.Warn("close publisher", zap.Error(err))
	}
	for _, c := range closers {
		if err := c.Disconnect(shutdownCtx); err != nil {
			logger.Log.Warn("disconnect", zap.Error(err))
		}
	}
}
