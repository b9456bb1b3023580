package ports

import (
	"context"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// BoardState describes what the analytics board can currently show.
type BoardState string

const (
	BoardLoading BoardState = "loading"
	BoardReady   BoardState = "ready"
	BoardFailed  BoardState = "failed"
)

// BoardView is a read-only view of the analytics board.
type BoardView struct {
	State      BoardState
	Generation uint64
	Snapshot   *domain.AnalyticsSnapshot
}

// AnalyticsService runs aggregation passes and serves their results.
type AnalyticsService interface {
	// RunPass performs one full fetch-then-aggregate pass for generation.
	RunPass(ctx context.Context, generation uint64) (*domain.AnalyticsSnapshot, error)
	// View returns the board as last committed.
	View() BoardView
	CustomersWithInteractionType(ctx context.Context, t domain.InteractionType) ([]domain.Customer, error)
	CustomersOfType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error)
}
