package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// AnalyticsService runs aggregation passes and keeps the board the console
// reads from. Each pass builds its buckets from scratch; the only state shared
// between passes is the generation bookkeeping and the committed view.
type AnalyticsService struct {
	fetcher ports.CollectionFetcher
	fanOut  int
	log     zerolog.Logger
	now     func() time.Time

	mu     sync.Mutex
	newest uint64 // highest generation started
	view   ports.BoardView
}

// NewAnalyticsService returns an AnalyticsService issuing at most fanOut
// interaction fetches at a time.
func NewAnalyticsService(fetcher ports.CollectionFetcher, fanOut int, log zerolog.Logger) *AnalyticsService {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &AnalyticsService{
		fetcher: fetcher,
		fanOut:  fanOut,
		log:     log,
		now:     time.Now,
		view:    ports.BoardView{State: ports.BoardLoading},
	}
}

// RunPass fetches the customer snapshot, fans out one interaction fetch per
// customer and aggregates both summaries. The result is committed to the board
// only if no newer generation has started meanwhile; otherwise ErrStalePass is
// returned and the result is dropped.
func (s *AnalyticsService) RunPass(ctx context.Context, generation uint64) (*domain.AnalyticsSnapshot, error) {
	if !s.begin(generation) {
		metrics.AggregationPassesTotal.WithLabelValues("stale").Inc()
		return nil, fmt.Errorf("generation %d: %w", generation, domain.ErrStalePass)
	}

	started := s.now()
	customers, err := s.fetcher.ListAllCustomers(ctx)
	if err != nil {
		return nil, s.fail(ctx, generation, fmt.Errorf("list customers: %w", err))
	}

	rows, err := fetchInteractions(ctx, customers, s.fetcher, s.fanOut)
	if err != nil {
		return nil, s.fail(ctx, generation, err)
	}

	snap := &domain.AnalyticsSnapshot{
		Generation:    generation,
		Interactions:  tallyInteractionTypes(rows),
		CustomerTypes: tallyCustomerTypes(rows),
		CustomerCount: len(customers),
		StartedAt:     started.UTC(),
		CompletedAt:   s.now().UTC(),
	}

	if !s.commit(snap) {
		metrics.AggregationPassesTotal.WithLabelValues("stale").Inc()
		s.log.Debug().Uint64("generation", generation).Msg("discarded stale aggregation pass")
		return nil, fmt.Errorf("generation %d: %w", generation, domain.ErrStalePass)
	}

	metrics.AggregationPassesTotal.WithLabelValues("success").Inc()
	metrics.AggregationPassDuration.Observe(snap.CompletedAt.Sub(snap.StartedAt).Seconds())
	s.log.Info().
		Uint64("generation", generation).
		Int("customers", len(customers)).
		Dur("took", snap.CompletedAt.Sub(snap.StartedAt)).
		Msg("aggregation pass completed")

	return snap, nil
}

// View returns the board as last committed.
func (s *AnalyticsService) View() ports.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *AnalyticsService) begin(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation < s.newest {
		return false
	}
	s.newest = generation
	s.view = ports.BoardView{State: ports.BoardLoading, Generation: generation}
	return true
}

func (s *AnalyticsService) commit(snap *domain.AnalyticsSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Generation != s.newest {
		return false
	}
	s.view = ports.BoardView{State: ports.BoardReady, Generation: snap.Generation, Snapshot: snap}
	return true
}

// fail records a failed pass. A pass that lost to a newer generation is
// reported as stale instead, and a cancelled pass leaves the board untouched.
func (s *AnalyticsService) fail(ctx context.Context, generation uint64, cause error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("aggregation pass %d: %w", generation, ctx.Err())
	}

	s.mu.Lock()
	current := generation == s.newest
	if current {
		s.view = ports.BoardView{State: ports.BoardFailed, Generation: generation}
	}
	s.mu.Unlock()

	if !current {
		metrics.AggregationPassesTotal.WithLabelValues("stale").Inc()
		return fmt.Errorf("generation %d: %w", generation, domain.ErrStalePass)
	}

	metrics.AggregationPassesTotal.WithLabelValues("failure").Inc()
	s.log.Error().Err(cause).Uint64("generation", generation).Msg("aggregation pass failed")
	return fmt.Errorf("aggregation pass %d: %w", generation, errors.Join(domain.ErrAnalyticsUnavailable, cause))
}

// CustomersWithInteractionType lists the customers that have at least one
// interaction of type t.
func (s *AnalyticsService) CustomersWithInteractionType(ctx context.Context, t domain.InteractionType) ([]domain.Customer, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("interaction type %q: %w", t, domain.ErrUnknownCategory)
	}
	customers, err := s.fetcher.ListAllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	rows, err := fetchInteractions(ctx, customers, s.fetcher, s.fanOut)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		for _, in := range row.interactions {
			if in.InteractionType == t {
				out = append(out, row.customer)
				break
			}
		}
	}
	return out, nil
}

// CustomersOfType lists the customers of customer type t.
func (s *AnalyticsService) CustomersOfType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("customer type %q: %w", t, domain.ErrUnknownCategory)
	}
	customers, err := s.fetcher.ListAllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c.CustomerType == t {
			out = append(out, c)
		}
	}
	return out, nil
}
