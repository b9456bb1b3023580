package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub of the CRM API
// ---------------------------------------------------------------------------

type stubCRM struct {
	mu           sync.Mutex
	customers    []domain.Customer
	interactions map[int64][]domain.Interaction
	failFor      map[int64]error // ListInteractions returns this error for the customer
	listErr      error           // ListAllCustomers returns this error
	writeErr     error
	entered      chan struct{} // when set, ListAllCustomers reports each call
	block        chan struct{} // when set, ListAllCustomers waits on it
	calls        atomic.Int64  // ListInteractions calls
	nextID       int64
}

func newStubCRM() *stubCRM {
	return &stubCRM{
		interactions: make(map[int64][]domain.Interaction),
		failFor:      make(map[int64]error),
		nextID:       100,
	}
}

func (s *stubCRM) addCustomer(id int64, t domain.CustomerType, in ...domain.Interaction) {
	s.customers = append(s.customers, domain.Customer{
		ID:           id,
		FirstName:    fmt.Sprintf("first%d", id),
		LastName:     fmt.Sprintf("last%d", id),
		Email:        fmt.Sprintf("c%d@example.com", id),
		CustomerType: t,
	})
	for i := range in {
		in[i].CustomerID = id
	}
	s.interactions[id] = in
}

func (s *stubCRM) ListAllCustomers(ctx context.Context) ([]domain.Customer, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Customer(nil), s.customers...), nil
}

func (s *stubCRM) ListInteractions(_ context.Context, customerID int64) ([]domain.Interaction, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[customerID]; err != nil {
		return nil, err
	}
	return append([]domain.Interaction(nil), s.interactions[customerID]...), nil
}

func (s *stubCRM) ListCustomersPage(_ context.Context, page, size int) (*domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.customers)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	pages := (total + size - 1) / size
	return &domain.Page{
		Items:      append([]domain.Customer{}, s.customers[start:end]...),
		Page:       page,
		Size:       size,
		TotalItems: int64(total),
		TotalPages: pages,
	}, nil
}

func (s *stubCRM) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (s *stubCRM) CreateCustomer(_ context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := domain.Customer{
		ID:           s.nextID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		CustomerType: in.CustomerType,
	}
	s.customers = append(s.customers, c)
	return &c, nil
}

func (s *stubCRM) DeleteCustomer(_ context.Context, id int64) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.customers {
		if c.ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			delete(s.interactions, id)
			return nil
		}
	}
	return domain.ErrCustomerNotFound
}

func (s *stubCRM) CreateInteraction(_ context.Context, in domain.InteractionInput) (*domain.Interaction, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	created := domain.Interaction{
		ID:              s.nextID,
		CustomerID:      in.CustomerID,
		InteractionType: in.InteractionType,
		Description:     in.Description,
		Status:          in.Status,
	}
	s.interactions[in.CustomerID] = append(s.interactions[in.CustomerID], created)
	return &created, nil
}

func (s *stubCRM) UpdateInteraction(_ context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for cid, list := range s.interactions {
		for i := range list {
			if list[i].ID == id {
				list[i].InteractionType = in.InteractionType
				list[i].Description = in.Description
				list[i].Status = in.Status
				s.interactions[cid] = list
				updated := list[i]
				return &updated, nil
			}
		}
	}
	return nil, domain.ErrInteractionNotFound
}

// ---------------------------------------------------------------------------
// Stub session store and authenticator
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{values: make(map[string][]byte)}
}

func (s *stubSessionStore) Get(_ context.Context, sessionID string) (*domain.Identity, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := domain.DecodeIdentity(s.values[sessionID])
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *stubSessionStore) Set(_ context.Context, sessionID string, id domain.Identity, _ time.Duration) error {
	raw, err := domain.EncodeIdentity(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[sessionID] = raw
	return nil
}

func (s *stubSessionStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, sessionID)
	return nil
}

type stubAuthenticator struct {
	users map[string]domain.Identity // keyed by username; password is "secret"
}

func (a stubAuthenticator) Authenticate(_ context.Context, username, password string) (*domain.Identity, error) {
	id, ok := a.users[username]
	if !ok || password != "secret" {
		return nil, &domain.APIError{Method: "POST", Path: "/api/auth/login", Status: 401, Message: "Invalid username or password"}
	}
	return &id, nil
}

func (a stubAuthenticator) Register(_ context.Context, in domain.Registration) (*domain.Identity, error) {
	if _, taken := a.users[in.Username]; taken {
		return nil, &domain.APIError{Method: "POST", Path: "/api/auth/register", Status: 400, Message: "Username already exists"}
	}
	id := domain.Identity{Username: in.Username, Role: in.Role}
	a.users[in.Username] = id
	return &id, nil
}

type failingRefresh struct{}

func (failingRefresh) Bump(context.Context) (uint64, error)    { return 0, fmt.Errorf("redis down") }
func (failingRefresh) Current(context.Context) (uint64, error) { return 0, nil }
func (failingRefresh) Subscribe(ctx context.Context) <-chan uint64 {
	ch := make(chan uint64)
	close(ch)
	return ch
}

var discardLogger = zerolog.Nop()

func interaction(t domain.InteractionType, s domain.InteractionStatus) domain.Interaction {
	return domain.Interaction{InteractionType: t, Status: s, Description: "note"}
}
