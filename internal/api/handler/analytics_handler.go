package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// AnalyticsHandler serves the analytics board and its drill-down lists.
type AnalyticsHandler struct {
	analytics ports.AnalyticsService
	refresh   ports.RefreshSignal
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, refresh ports.RefreshSignal) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, refresh: refresh}
}

// Board returns the last committed aggregation. While the first pass of a
// generation runs the answer is 202 with no buckets; after a failed pass it is
// 503 and no buckets are shown.
//
// @Summary      Analytics board
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analyticsResponse
// @Success      202  {object}  analyticsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/analytics [get]
func (h *AnalyticsHandler) Board(c echo.Context) error {
	view := h.analytics.View()

	switch view.State {
	case ports.BoardFailed:
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: domain.ErrAnalyticsUnavailable.Error()})
	case ports.BoardLoading:
		return c.JSON(http.StatusAccepted, analyticsResponse{State: view.State, Generation: view.Generation})
	}

	snap := view.Snapshot
	completed := snap.CompletedAt
	return c.JSON(http.StatusOK, analyticsResponse{
		State:         view.State,
		Generation:    view.Generation,
		Interactions:  snap.Interactions,
		CustomerTypes: snap.CustomerTypes,
		CustomerCount: snap.CustomerCount,
		CompletedAt:   &completed,
	})
}

// Refresh requests a new aggregation pass.
//
// @Summary      Re-run aggregation
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  refreshResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/analytics/refresh [post]
func (h *AnalyticsHandler) Refresh(c echo.Context) error {
	gen, err := h.refresh.Bump(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, refreshResponse{Generation: gen})
}

// CustomersByInteraction lists customers with at least one interaction of the
// given type.
//
// @Summary      Customers by interaction type
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "PURCHASE, INQUIRY or RETURN"
// @Success      200   {object}  customerListResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/analytics/interactions/{type}/customers [get]
func (h *AnalyticsHandler) CustomersByInteraction(c echo.Context) error {
	t := domain.InteractionType(c.Param("type"))
	customers, err := h.analytics.CustomersWithInteractionType(c.Request().Context(), t)
	if err != nil {
		return err
	}
	resp := customerListResponse{Category: string(t), Count: len(customers), Items: customers}
	if snap := h.analytics.View().Snapshot; snap != nil {
		if b, ok := snap.Interactions.Bucket(t); ok {
			resp.InteractionBucket = &b
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CustomersByType lists customers of the given customer type.
//
// @Summary      Customers by customer type
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        type  path      string  true  "REGULAR, PREMIUM or VIP"
// @Success      200   {object}  customerListResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/analytics/customer-types/{type}/customers [get]
func (h *AnalyticsHandler) CustomersByType(c echo.Context) error {
	t := domain.CustomerType(c.Param("type"))
	customers, err := h.analytics.CustomersOfType(c.Request().Context(), t)
	if err != nil {
		return err
	}
	resp := customerListResponse{Category: string(t), Count: len(customers), Items: customers}
	if snap := h.analytics.View().Snapshot; snap != nil {
		if b, ok := snap.CustomerTypes.Bucket(t); ok {
			resp.CustomerTypeBucket = &b
		}
	}
	return c.JSON(http.StatusOK, resp)
}
