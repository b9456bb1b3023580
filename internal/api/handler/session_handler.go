package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crmsystem/console-api/internal/api/middleware"
	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// SessionHandler serves login, logout and the current-session lookup.
type SessionHandler struct {
	sessions ports.SessionService
	ttl      time.Duration
}

func NewSessionHandler(sessions ports.SessionService, ttl time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, ttl: ttl}
}

// Login exchanges credentials with the CRM API and opens a session.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// The API's refusal text is shown to the user as-is.
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			msg := apiErr.Message
			if msg == "" {
				msg = "invalid credentials"
			}
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: time.Now().Add(h.ttl).UTC(),
		Identity:  res.Identity,
		Message:   "Login successful",
	})
}

// Register signs a new console user up with the CRM API. It does not log the
// user in.
//
// @Summary      Register a user
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "New user"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/users [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.sessions.Register(c.Request().Context(), req.toDomain())
	if err != nil {
		// Duplicate username or email: the API's text is shown as-is.
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Message != "" {
			return c.JSON(apiErr.Status, errorResponse{Error: apiErr.Message})
		}
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message:  "User registered successfully",
		Identity: *id,
	})
}

// Logout clears the caller's session. It succeeds for anonymous callers too.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Router       /v1/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.SessionIDFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the identity held by the caller's session, if any.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: id != nil, Identity: id})
}
