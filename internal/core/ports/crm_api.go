package ports

import (
	"context"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// InteractionFetcher retrieves the interactions of a single customer.
type InteractionFetcher interface {
	ListInteractions(ctx context.Context, customerID int64) ([]domain.Interaction, error)
}

// CollectionFetcher is the read boundary to the CRM API. Nothing behind it
// caches: every call goes over the network.
type CollectionFetcher interface {
	InteractionFetcher
	// ListAllCustomers returns the full, unpaginated customer snapshot.
	ListAllCustomers(ctx context.Context) ([]domain.Customer, error)
	// ListCustomersPage returns one page of the customer table. page is 0-based.
	ListCustomersPage(ctx context.Context, page, size int) (*domain.Page, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}

// CRMWriter forwards console mutations to the CRM API.
type CRMWriter interface {
	CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	CreateInteraction(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error)
	UpdateInteraction(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error)
}

// Authenticator performs the credential exchange with the CRM API.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
	// Register creates a user account. A refusal such as a duplicate username
	// comes back as *domain.APIError carrying the API's message.
	Register(ctx context.Context, in domain.Registration) (*domain.Identity, error)
}
