package service

import (
	"context"
	"sync"
)

// LocalRefreshSignal is an in-process generation counter. It serves a single
// replica; deployments with several replicas use the Redis-backed signal.
type LocalRefreshSignal struct {
	mu   sync.Mutex
	gen  uint64
	subs map[chan uint64]struct{}
}

// NewLocalRefreshSignal returns a signal starting at generation 0.
func NewLocalRefreshSignal() *LocalRefreshSignal {
	return &LocalRefreshSignal{subs: make(map[chan uint64]struct{})}
}

// Bump advances the generation and notifies every subscriber.
func (s *LocalRefreshSignal) Bump(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for ch := range s.subs {
		offerLatest(ch, s.gen)
	}
	return s.gen, nil
}

// Current returns the latest generation.
func (s *LocalRefreshSignal) Current(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, nil
}

// Subscribe delivers the current generation (when non-zero) and every later
// one until ctx is done, at which point the channel is closed.
func (s *LocalRefreshSignal) Subscribe(ctx context.Context) <-chan uint64 {
	ch := make(chan uint64, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.gen > 0 {
		offerLatest(ch, s.gen)
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// offerLatest puts gen into a one-slot channel, replacing any generation the
// receiver has not picked up yet.
func offerLatest(ch chan uint64, gen uint64) {
	for {
		select {
		case ch <- gen:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
