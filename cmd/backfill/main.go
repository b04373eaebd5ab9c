// Command backfill assigns docket numbers to consignments, shipments and
// invoice items that predate the docket field. It is safe to run repeatedly.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"rrlogistics/config"
	"rrlogistics/db/mongo"
	"rrlogistics/logger"
	"rrlogistics/repository"
	"rrlogistics/services"
)

func main() {
	cfg := config.LoadConfig()
	if err := logger.Initialize(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("logger wasn't initialized: %s", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
	if err := mg.Connect(ctx); err != nil {
		logger.Log.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() { _ = mg.Disconnect(context.Background()) }()

	database := mg.Database()
	dockets := services.NewDocketReconciler(
		repository.NewMongoConsignmentRepo(database),
		repository.NewMongoShipmentRepo(database),
		repository.NewMongoInvoiceRepo(database),
	)

	stats, err := dockets.BackfillAll(ctx)
	if err != nil {
		logger.Log.Fatal("backfill failed", zap.Error(err), zap.Any("partial", stats))
	}
	logger.Log.Info("backfill complete",
		zap.Int("consignments", stats.Consignments),
		zap.Int("shipments", stats.Shipments),
		zap.Int("invoices", stats.Invoices),
	)
}
