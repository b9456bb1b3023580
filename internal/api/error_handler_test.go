package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"not found", fmt.Errorf("customer 9: %w", domain.ErrCustomerNotFound), http.StatusNotFound, "customer not found"},
		{"unknown category", fmt.Errorf("customer type %q: %w", "GOLD", domain.ErrUnknownCategory), http.StatusBadRequest, `customer type "GOLD": unknown category`},
		{"incomplete sign-up", fmt.Errorf("register: %w", domain.ErrInvalidRegistration), http.StatusBadRequest, "username, email and password are required"},
		{"duplicate username", fmt.Errorf("register: %w", &domain.APIError{Method: "POST", Path: "/api/auth/register", Status: 400, Message: "Username already exists"}), http.StatusBadRequest, "Username already exists"},
		{"analytics down", errors.Join(domain.ErrAnalyticsUnavailable, domain.ErrFetchFailed), http.StatusServiceUnavailable, "could not load analytics"},
		{"api conflict", &domain.APIError{Method: "POST", Path: "/api/customers/addCustomer", Status: 409, Message: "Customer with this email already exists"}, http.StatusConflict, "Customer with this email already exists"},
		{"api server error", &domain.APIError{Method: "GET", Path: "/api/customers/1", Status: 500, Message: "boom"}, http.StatusBadGateway, "crm api request failed"},
		{"timeout", fmt.Errorf("GET /x: %w", errors.Join(domain.ErrFetchFailed, context.DeadlineExceeded)), http.StatusGatewayTimeout, "crm api timed out"},
		{"unexpected", errors.New("nil map"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Errorf("message = %q, want %q", body.Error, tc.msg)
			}
		})
	}
}
