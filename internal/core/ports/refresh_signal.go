package ports

import "context"

// RefreshSignal is the explicit trigger for re-aggregation. Every Bump yields
// a strictly greater generation than any generation observed before it.
type RefreshSignal interface {
	Bump(ctx context.Context) (uint64, error)
	// Current returns the latest generation without bumping.
	Current(ctx context.Context) (uint64, error)
	// Subscribe delivers generations until ctx is cancelled. Slow receivers
	// only see the most recent generation.
	Subscribe(ctx context.Context) <-chan uint64
}
