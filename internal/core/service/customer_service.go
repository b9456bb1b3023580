package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

const defaultPageSize = 10

// CustomerService backs the customer table, the customer detail view and the
// console's forms. Every successful write bumps the refresh signal so the
// analytics board is rebuilt.
type CustomerService struct {
	fetcher  ports.CollectionFetcher
	writer   ports.CRMWriter
	refresh  ports.RefreshSignal
	pageSize int
	logger   zerolog.Logger
}

func NewCustomerService(fetcher ports.CollectionFetcher, writer ports.CRMWriter, refresh ports.RefreshSignal, pageSize int, logger zerolog.Logger) *CustomerService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CustomerService{fetcher: fetcher, writer: writer, refresh: refresh, pageSize: pageSize, logger: logger}
}

// ListCustomers returns page (0-based) of the customer table.
func (s *CustomerService) ListCustomers(ctx context.Context, page int) (*domain.Page, error) {
	if page < 0 {
		page = 0
	}
	return s.fetcher.ListCustomersPage(ctx, page, s.pageSize)
}

// GetCustomer loads a customer and its interaction history concurrently.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*domain.CustomerDetail, error) {
	var (
		customer     *domain.Customer
		interactions []domain.Interaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.fetcher.GetCustomer(gctx, id)
		if err != nil {
			return err
		}
		customer = c
		return nil
	})
	g.Go(func() error {
		list, err := s.fetcher.ListInteractions(gctx, id)
		if err != nil {
			return fmt.Errorf("interactions of customer %d: %w", id, err)
		}
		interactions = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	return &domain.CustomerDetail{
		Customer:     *customer,
		Interactions: interactions,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// RegisterCustomer creates a customer through the CRM API.
func (s *CustomerService) RegisterCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if !in.CustomerType.Valid() {
		return nil, fmt.Errorf("customer type %q: %w", in.CustomerType, domain.ErrUnknownCategory)
	}

	c, err := s.writer.CreateCustomer(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	s.logger.Info().Int64("customer_id", c.ID).Str("customer_type", string(c.CustomerType)).Msg("customer registered")
	s.bump(ctx, "customer_registered")
	return c, nil
}

// DeleteCustomer removes a customer through the CRM API.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.writer.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	s.bump(ctx, "customer_deleted")
	return nil
}

// AddInteraction records a new interaction for in.CustomerID.
func (s *CustomerService) AddInteraction(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error) {
	if err := validInteraction(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.StatusOpen
	}

	created, err := s.writer.CreateInteraction(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("add interaction: %w", err)
	}
	s.logger.Info().Int64("customer_id", in.CustomerID).Int64("interaction_id", created.ID).Msg("interaction added")
	s.bump(ctx, "interaction_added")
	return created, nil
}

// UpdateInteraction edits an existing interaction.
func (s *CustomerService) UpdateInteraction(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error) {
	if err := validInteraction(in); err != nil {
		return nil, err
	}

	updated, err := s.writer.UpdateInteraction(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update interaction %d: %w", id, err)
	}
	s.logger.Info().Int64("interaction_id", id).Str("status", string(updated.Status)).Msg("interaction updated")
	s.bump(ctx, "interaction_updated")
	return updated, nil
}

func validInteraction(in domain.InteractionInput) error {
	if !in.InteractionType.Valid() {
		return fmt.Errorf("interaction type %q: %w", in.InteractionType, domain.ErrUnknownCategory)
	}
	switch in.Status {
	case "", domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved, domain.StatusClosed:
		return nil
	}
	return fmt.Errorf("interaction status %q: %w", in.Status, domain.ErrUnknownCategory)
}

// bump requests a new analytics pass. The write already succeeded, so a
// failed bump is only logged.
func (s *CustomerService) bump(ctx context.Context, reason string) {
	gen, err := s.refresh.Bump(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("refresh signal bump failed")
		return
	}
	s.logger.Debug().Uint64("generation", gen).Str("reason", reason).Msg("analytics refresh requested")
}
