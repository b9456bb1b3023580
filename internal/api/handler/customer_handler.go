package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/core/ports"
)

// CustomerHandler forwards the console's customer and interaction screens to
// the CRM API.
type CustomerHandler struct {
	service ports.CustomerService
	log     zerolog.Logger
}

func NewCustomerHandler(service ports.CustomerService, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, log: log}
}

// List handles GET /v1/customers?page=N.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  domain.Page
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page := 0
	if raw := c.QueryParam("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a non-negative integer")
		}
		page = p
	}

	result, err := h.service.ListCustomers(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /v1/customers/:id.
//
// @Summary      Customer detail with interactions
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  domain.CustomerDetail
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles POST /v1/customers.
//
// @Summary      Register a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCustomerRequest  true  "Customer"
// @Success      201   {object}  domain.Customer
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.service.RegisterCustomer(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}

	if caller, err := ctxIdentity(c); err == nil {
		h.log.Info().Str("username", caller.Username).Int64("customer_id", customer.ID).Msg("customer registered via console")
	}
	return c.JSON(http.StatusCreated, customer)
}

// Delete handles DELETE /v1/customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  int  true  "Customer id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCustomer(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddInteraction handles POST /v1/customers/:id/interactions.
//
// @Summary      Record an interaction
// @Tags         interactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Customer id"
// @Param        body  body      interactionRequest  true  "Interaction"
// @Success      201   {object}  domain.Interaction
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/customers/{id}/interactions [post]
func (h *CustomerHandler) AddInteraction(c echo.Context) error {
	customerID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req interactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.AddInteraction(c.Request().Context(), req.toDomain(customerID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateInteraction handles PUT /v1/interactions/:id.
//
// @Summary      Edit an interaction
// @Tags         interactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Interaction id"
// @Param        body  body      updateInteractionRequest  true  "Interaction"
// @Success      200   {object}  domain.Interaction
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/interactions/{id} [put]
func (h *CustomerHandler) UpdateInteraction(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateInteractionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateInteraction(c.Request().Context(), id, req.toDomain(req.CustomerID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
