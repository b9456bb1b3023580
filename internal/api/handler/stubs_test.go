package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

type stubSessionService struct {
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, in domain.Registration) (*domain.Identity, error)
	loggedOut  []string
}

func (s *stubSessionService) Register(ctx context.Context, in domain.Registration) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubSessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionService) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

func (s *stubSessionService) Resolve(context.Context, string) (string, *domain.Identity, error) {
	return "", nil, nil
}

type stubCustomerService struct {
	listFn   func(ctx context.Context, page int) (*domain.Page, error)
	getFn    func(ctx context.Context, id int64) (*domain.CustomerDetail, error)
	createFn func(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error)
	deleteFn func(ctx context.Context, id int64) error
	addFn    func(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error)
	updateFn func(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error)
}

func (s *stubCustomerService) ListCustomers(ctx context.Context, page int) (*domain.Page, error) {
	return s.listFn(ctx, page)
}

func (s *stubCustomerService) GetCustomer(ctx context.Context, id int64) (*domain.CustomerDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubCustomerService) RegisterCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	return s.createFn(ctx, in)
}

func (s *stubCustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubCustomerService) AddInteraction(ctx context.Context, in domain.InteractionInput) (*domain.Interaction, error) {
	return s.addFn(ctx, in)
}

func (s *stubCustomerService) UpdateInteraction(ctx context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error) {
	return s.updateFn(ctx, id, in)
}

type stubAnalytics struct {
	view     ports.BoardView
	byTypeFn func(ctx context.Context, t domain.InteractionType) ([]domain.Customer, error)
	ofTypeFn func(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error)
}

func (s *stubAnalytics) RunPass(context.Context, uint64) (*domain.AnalyticsSnapshot, error) {
	return nil, nil
}

func (s *stubAnalytics) View() ports.BoardView { return s.view }

func (s *stubAnalytics) CustomersWithInteractionType(ctx context.Context, t domain.InteractionType) ([]domain.Customer, error) {
	return s.byTypeFn(ctx, t)
}

func (s *stubAnalytics) CustomersOfType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error) {
	return s.ofTypeFn(ctx, t)
}

type stubRefresh struct{ gen uint64 }

func (s *stubRefresh) Bump(context.Context) (uint64, error) {
	s.gen++
	return s.gen, nil
}

func (s *stubRefresh) Current(context.Context) (uint64, error) { return s.gen, nil }

func (s *stubRefresh) Subscribe(context.Context) <-chan uint64 { return nil }

// newContext builds an echo context with the handler validator installed.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
