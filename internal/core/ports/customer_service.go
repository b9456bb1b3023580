package ports

import (
	"context"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// CustomerService backs the customer table, detail view and forms.
type CustomerService interface {
	ListCustomers(ctx context.Context, page int) (*domain.Page, error)
	GetCustomer(ctx context.Context, id int64) (*domain.CustomerDetail, error)
	RegisterCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	AddInteraction(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error)
	UpdateInteraction(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error)
}
