package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmsystem/console-api/internal/api/middleware"
	"github.com/crmsystem/console-api/internal/core/domain"
)

// PermissionEvaluator returns the decision for every known action.
type PermissionEvaluator interface {
	Permissions(id *domain.Identity) map[domain.Permission]bool
}

// PermissionHandler exposes the permission map the console uses to enable or
// hide its controls.
type PermissionHandler struct {
	evaluator PermissionEvaluator
}

func NewPermissionHandler(evaluator PermissionEvaluator) *PermissionHandler {
	return &PermissionHandler{evaluator: evaluator}
}

// List returns every action with its allow/deny decision for the caller.
// Anonymous callers get an all-false map.
//
// @Summary      Permission map
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  permissionsResponse
// @Router       /v1/permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	return c.JSON(http.StatusOK, permissionsResponse{
		Identity:    id,
		Permissions: h.evaluator.Permissions(id),
	})
}
