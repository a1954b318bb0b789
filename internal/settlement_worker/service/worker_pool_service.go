package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/agentpay-wallet-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolSettlementService fans event processing out to an ants pool
// while keeping the consumer's at-least-once contract: the caller blocks
// until its event is done, so offsets commit only after processing.
type WorkerPoolSettlementService struct {
	baseService SettlementService
	pool        *ants.Pool
	logger      *slog.Logger
	// Protects the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolSettlementService(
	baseService SettlementService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolSettlementService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolSettlementService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessEvent submits the event to the worker pool and waits for the result
func (s *WorkerPoolSettlementService) ProcessEvent(ctx context.Context, event *shared.SettlementEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Submitting settlement event to worker pool",
		"event_id", event.EventID.String(),
		"type", string(event.Type),
	)

	resultChan := make(chan error, 1)

	eventID := event.EventID.String()
	s.mu.Lock()
	s.results[eventID] = resultChan
	s.mu.Unlock()

	// Copy the event to avoid data races
	eventCopy := *event

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessEvent(ctx, &eventCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit settlement event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Running returns the number of workers currently processing events
func (s *WorkerPoolSettlementService) Running() int {
	return s.pool.Running()
}

// Shutdown releases the worker pool
func (s *WorkerPoolSettlementService) Shutdown() {
	s.pool.Release()
}
