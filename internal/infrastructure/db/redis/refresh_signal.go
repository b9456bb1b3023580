package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	generationKey     = "crm:analytics:generation"
	generationChannel = "crm:analytics:refresh"
)

// RefreshSignal shares the analytics generation counter between replicas. The
// counter is an INCR'd key; every bump is also published so subscribers on
// other replicas wake up.
type RefreshSignal struct {
	client redis.UniversalClient
	log    zerolog.Logger
}

// NewRefreshSignal creates a RefreshSignal wrapping the given Redis client.
func NewRefreshSignal(client redis.UniversalClient, log zerolog.Logger) *RefreshSignal {
	return &RefreshSignal{client: client, log: log}
}

func (r *RefreshSignal) Bump(ctx context.Context) (uint64, error) {
	gen, err := r.client.Incr(ctx, generationKey).Result()
	if err != nil {
		return 0, fmt.Errorf("refresh bump: %w", err)
	}
	if err := r.client.Publish(ctx, generationChannel, gen).Err(); err != nil {
		// The counter moved; subscribers still catch up on their next message.
		r.log.Warn().Err(err).Int64("generation", gen).Msg("refresh publish failed")
	}
	return uint64(gen), nil
}

func (r *RefreshSignal) Current(ctx context.Context) (uint64, error) {
	gen, err := r.client.Get(ctx, generationKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("refresh current: %w", err)
	}
	return gen, nil
}

// Subscribe forwards published generations until ctx is done. Out-of-order or
// repeated generations are dropped, and a slow receiver only sees the latest.
func (r *RefreshSignal) Subscribe(ctx context.Context) <-chan uint64 {
	out := make(chan uint64, 1)
	pubsub := r.client.Subscribe(ctx, generationChannel)

	go func() {
		defer close(out)
		defer pubsub.Close()

		var last uint64
		if cur, err := r.Current(ctx); err == nil && cur > 0 {
			last = cur
			offer(out, cur)
		}

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				gen, err := strconv.ParseUint(msg.Payload, 10, 64)
				if err != nil {
					r.log.Warn().Str("payload", msg.Payload).Msg("ignoring malformed refresh message")
					continue
				}
				if gen <= last {
					continue
				}
				last = gen
				offer(out, gen)
			}
		}
	}()
	return out
}

func offer(ch chan uint64, gen uint64) {
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
