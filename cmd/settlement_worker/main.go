package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/agentpay-wallet-ledger/internal/config"
	"github.com/agentpay-wallet-ledger/internal/data/mongo"
	"github.com/agentpay-wallet-ledger/internal/data/postgres"
	"github.com/agentpay-wallet-ledger/internal/logger"
	"github.com/agentpay-wallet-ledger/internal/platform/messaging/consumers"
	"github.com/agentpay-wallet-ledger/internal/platform/messaging/producers"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/agentpay-wallet-ledger/internal/settlement_worker/consumer"
	"github.com/agentpay-wallet-ledger/internal/settlement_worker/disbursement"
	"github.com/agentpay-wallet-ledger/internal/settlement_worker/outbox_poller"
	"github.com/agentpay-wallet-ledger/internal/settlement_worker/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("settlement_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Settlement Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	payoutRepo := postgres.NewPayoutRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	historyRepo := mongo.NewHistoryRepository(log, mongoDB.Database())

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka settlement producer used by the outbox poller
	settlementProducer, err := producers.NewSettlementEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize settlement Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler is nil-safe.

	// Initialize the disbursement path
	disburser := disbursement.NewSimulatedDisburser(log)
	payoutProcessor := disbursement.NewProcessor(payoutRepo, disburser, log)

	// Initialize settlement processing behind a worker pool
	baseService := service.NewSettlementService(log, historyRepo, payoutProcessor)
	settlementService, err := service.NewWorkerPoolSettlementService(
		baseService,
		service.WorkerPoolConfig{Size: cfg.Disbursement.PoolSize},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize settlement event handler
	settlementEventHandler := consumer.NewSettlementEventHandler(
		log,
		settlementService,
		dlqProducer,
	)

	// Initialize outbox poller
	eventPublisher := outbox_poller.NewKafkaEventPublisher(
		outboxRepo,
		settlementProducer,
		log,
	)
	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		outboxRepo,
		eventPublisher,
		log,
	)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.SettlementTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.SettlementTopic, cfg.Kafka.ConsumerGroup, settlementEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start outbox poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Outbox Poller",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		poller.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the worker pool
	log.Info("Shutting down worker pool", "running_workers", settlementService.Running())
	settlementService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close Kafka producers and consumer
	if err = settlementProducer.Close(); err != nil {
		log.Error("Error closing settlement Kafka producer", "error", err)
	}
	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Settlement Worker shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Settlement Worker shutdown completed with errors")
	} else {
		log.Info("Settlement Worker shutdown completed successfully")
	}
}
