package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/middleware"
	"github.com/crmsystem/console-api/internal/core/domain"
)

func TestCustomerHandler_List(t *testing.T) {
	var gotPage int
	stub := &stubCustomerService{
		listFn: func(_ context.Context, page int) (*domain.Page, error) {
			gotPage = page
			return &domain.Page{Items: []domain.Customer{{ID: 1}}, Page: page, Size: 10, TotalItems: 11, TotalPages: 2}, nil
		},
	}
	h := NewCustomerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/v1/customers?page=1", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || gotPage != 1 {
		t.Fatalf("expected 200 for page 1, got %d (page %d)", rec.Code, gotPage)
	}

	c, _ = newContext(http.MethodGet, "/v1/customers?page=-2", "")
	var he *echo.HTTPError
	if err := h.List(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative page, got %v", err)
	}
}

func TestCustomerHandler_Get(t *testing.T) {
	stub := &stubCustomerService{
		getFn: func(_ context.Context, id int64) (*domain.CustomerDetail, error) {
			if id != 7 {
				return nil, domain.ErrCustomerNotFound
			}
			return &domain.CustomerDetail{Customer: domain.Customer{ID: 7}, Interactions: []domain.Interaction{}}, nil
		},
	}
	h := NewCustomerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("8")
	if err := h.Get(c); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}

	c, _ = newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	var he *echo.HTTPError
	if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	stub := &stubCustomerService{
		createFn: func(_ context.Context, in domain.NewCustomer) (*domain.Customer, error) {
			if in.CustomerType != domain.CustomerPremium {
				t.Fatalf("unexpected type %q", in.CustomerType)
			}
			return &domain.Customer{ID: 42, FirstName: in.FirstName, CustomerType: in.CustomerType}, nil
		},
	}
	h := NewCustomerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/v1/customers",
		`{"firstName":"Ana","lastName":"Diaz","email":"ana@example.com","customerType":"PREMIUM"}`)
	middleware.WithIdentity(c, "s1", &domain.Identity{Username: "sam", Role: domain.RoleSalesRep})
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created domain.Customer
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID != 42 {
		t.Errorf("unexpected body: %+v", created)
	}
}

func TestCustomerHandler_Create_Validation(t *testing.T) {
	h := NewCustomerHandler(&stubCustomerService{}, zerolog.Nop())

	bodies := map[string]string{
		"bad email":    `{"firstName":"A","lastName":"B","email":"nope","customerType":"VIP"}`,
		"unknown type": `{"firstName":"A","lastName":"B","email":"a@b.co","customerType":"GOLD"}`,
		"missing name": `{"lastName":"B","email":"a@b.co","customerType":"VIP"}`,
	}
	for name, body := range bodies {
		c, _ := newContext(http.MethodPost, "/v1/customers", body)
		var he *echo.HTTPError
		if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %v", name, err)
		}
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	var deleted int64
	stub := &stubCustomerService{
		deleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewCustomerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 5 {
		t.Errorf("expected 204 deleting 5, got %d deleting %d", rec.Code, deleted)
	}
}

func TestCustomerHandler_Interactions(t *testing.T) {
	stub := &stubCustomerService{
		addFn: func(_ context.Context, in domain.InteractionInput) (*domain.Interaction, error) {
			if in.CustomerID != 3 || in.InteractionType != domain.InteractionInquiry {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Interaction{ID: 9, CustomerID: 3, InteractionType: in.InteractionType, Status: domain.StatusOpen}, nil
		},
		updateFn: func(_ context.Context, id int64, in domain.InteractionInput) (*domain.Interaction, error) {
			if id != 9 || in.Status != domain.StatusResolved || in.CustomerID != 3 {
				t.Fatalf("unexpected update: %d %+v", id, in)
			}
			return &domain.Interaction{ID: 9, CustomerID: 3, InteractionType: in.InteractionType, Status: in.Status}, nil
		},
	}
	h := NewCustomerHandler(stub, zerolog.Nop())

	c, rec := newContext(http.MethodPost, "/", `{"interactionType":"INQUIRY","description":"asked about delivery"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.AddInteraction(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodPut, "/", `{"customerId":3,"interactionType":"INQUIRY","description":"answered","status":"RESOLVED"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.UpdateInteraction(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPut, "/", `{"interactionType":"INQUIRY","description":"x","status":"ESCALATED"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	var he *echo.HTTPError
	if err := h.UpdateInteraction(c); !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown status, got %v", err)
	}
}
