package crmapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// ListInteractions returns every interaction of one customer.
func (c *Client) ListInteractions(ctx context.Context, customerID int64) ([]domain.Interaction, error) {
	var out []domain.Interaction
	if err := c.do(ctx, "list_interactions", http.MethodGet, fmt.Sprintf("/api/customers/%d/interactions", customerID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Interaction{}
	}
	return out, nil
}

func (c *Client) CreateInteraction(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error) {
	var out domain.Interaction
	err := c.do(ctx, "create_interaction", http.MethodPost, "/api/interactions", in, &out)
	if isStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("customer %d: %w", in.CustomerID, domain.ErrCustomerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInteraction(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error) {
	var out domain.Interaction
	err := c.do(ctx, "update_interaction", http.MethodPut, fmt.Sprintf("/api/interactions/%d", id), in, &out)
	if isStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("interaction %d: %w", id, domain.ErrInteractionNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
