// Package worker provides async persistence of calculation events.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/history"
)

// Worker consumes calculation events from the EventBus and persists them.
// The API handler publishes and returns; the worker owns the durable write,
// so request latency never includes the history insert.
type Worker struct {
	bus  domain.EventBus
	repo domain.Repository
	hist *history.Service

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// OwnerIDs is the list of owners to process (empty = all via the
	// global subscription)
	OwnerIDs []string

	// ActivityWindow is the sliding window for owner activity counters.
	ActivityWindow time.Duration
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, hist *history.Service) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:    bus,
		repo:   repo,
		hist:   hist,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins consuming calculation events for the given owners.
func (w *Worker) Start(cfg Config) error {
	window := cfg.ActivityWindow
	if window <= 0 {
		window = time.Hour
	}

	if len(cfg.OwnerIDs) == 0 {
		return w.startGlobalWorker(window)
	}

	for _, ownerID := range cfg.OwnerIDs {
		if err := w.startOwnerWorker(ownerID, window); err != nil {
			slog.Error("failed to start worker for owner",
				"owner_id", ownerID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"owner_count", len(cfg.OwnerIDs),
	)

	return nil
}

// startGlobalWorker starts a worker that processes all owners (for testing/dev).
func (w *Worker) startGlobalWorker(window time.Duration) error {
	sub, err := w.bus.Subscribe(w.ctx, domain.GlobalOwner, domain.TopicCalculationPerformed, func(ctx context.Context, msg *domain.Message) error {
		return w.persistCalculation(ctx, msg.OwnerID, msg, window)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("global worker started")
	return nil
}

// startOwnerWorker starts a worker for a specific owner.
func (w *Worker) startOwnerWorker(ownerID string, window time.Duration) error {
	sub, err := w.bus.Subscribe(w.ctx, ownerID, domain.TopicCalculationPerformed, func(ctx context.Context, msg *domain.Message) error {
		return w.persistCalculation(ctx, ownerID, msg, window)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("owner worker started",
		"owner_id", ownerID,
		"topic", domain.TopicCalculationPerformed,
	)

	return nil
}

// persistCalculation stores one published calculation result.
func (w *Worker) persistCalculation(ctx context.Context, ownerID string, msg *domain.Message, window time.Duration) error {
	start := time.Now()

	var calc domain.CalculationResult
	if err := json.Unmarshal(msg.Payload, &calc); err != nil {
		slog.Error("failed to parse calculation message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	// The payload's owner wins over the subscription scope.
	if calc.OwnerID != "" {
		ownerID = calc.OwnerID
	}

	if err := w.repo.SaveCalculation(ctx, ownerID, &calc); err != nil {
		slog.Error("failed to save calculation",
			"calculation_id", calc.ID,
			"owner_id", ownerID,
			"error", err,
		)
		return err
	}

	if w.hist != nil {
		if _, err := w.hist.RecordActivity(ctx, ownerID, window); err != nil {
			slog.Warn("failed to record owner activity",
				"owner_id", ownerID,
				"error", err,
			)
		}
	}

	slog.Info("calculation persisted",
		"calculation_id", calc.ID,
		"owner_id", ownerID,
		"product", calc.Product,
		"total_cost", calc.TotalCost,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops all workers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
