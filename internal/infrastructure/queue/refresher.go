package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// PassRunner runs one aggregation pass for a generation.
type PassRunner interface {
	RunPass(ctx context.Context, generation uint64) (*domain.AnalyticsSnapshot, error)
}

// Refresher turns refresh-signal generations into aggregation passes. Each new
// generation cancels the pass still in flight, so at most one pass per replica
// does network work at a time.
type Refresher struct {
	signal ports.RefreshSignal
	runner PassRunner
	log    zerolog.Logger

	wg sync.WaitGroup
}

func NewRefresher(signal ports.RefreshSignal, runner PassRunner, log zerolog.Logger) *Refresher {
	return &Refresher{signal: signal, runner: runner, log: log}
}

// Start subscribes to the signal and launches the loop. The first pass is
// requested here when no generation exists yet. The loop stops when ctx is
// cancelled; Wait blocks until its last pass has returned.
func (r *Refresher) Start(ctx context.Context) {
	gens := r.signal.Subscribe(ctx)

	if cur, err := r.signal.Current(ctx); err != nil {
		r.log.Warn().Err(err).Msg("reading refresh generation failed")
	} else if cur == 0 {
		if _, err := r.signal.Bump(ctx); err != nil {
			r.log.Warn().Err(err).Msg("initial refresh request failed")
		}
	}

	r.wg.Add(1)
	go r.loop(ctx, gens)
}

// Wait blocks until the loop and any in-flight pass have returned.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context, gens <-chan uint64) {
	defer r.wg.Done()

	var (
		cancel context.CancelFunc
		done   chan struct{}
		latest uint64
	)
	stop := func() {
		if cancel != nil {
			cancel()
			<-done
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case gen, ok := <-gens:
			if !ok {
				return
			}
			if gen <= latest {
				continue
			}
			latest = gen
			metrics.RefreshGeneration.Set(float64(gen))

			stop()
			var passCtx context.Context
			passCtx, cancel = context.WithCancel(ctx)
			done = make(chan struct{})
			go r.run(passCtx, gen, done)
		}
	}
}

func (r *Refresher) run(ctx context.Context, gen uint64, done chan<- struct{}) {
	defer close(done)

	_, err := r.runner.RunPass(ctx, gen)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStalePass), errors.Is(err, context.Canceled):
		r.log.Debug().Uint64("generation", gen).Msg("aggregation pass superseded")
	default:
		r.log.Error().Err(err).Uint64("generation", gen).Msg("aggregation pass failed")
	}
}
