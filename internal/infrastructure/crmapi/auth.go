package crmapi

import (
	"context"
	"net/http"

	"github.com/crmsystem/console-api/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	User    struct {
		Username string      `json:"username"`
		Role     domain.Role `json:"role"`
	} `json:"user"`
}

// Authenticate performs the login exchange. A refusal comes back as a
// *domain.APIError whose Message is the API's own text.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	var out authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &domain.Identity{Username: out.User.Username, Role: out.User.Role}, nil
}

// Register posts a sign-up to the CRM API. Duplicate usernames or emails come
// back as a 400 *domain.APIError with the API's message.
func (c *Client) Register(ctx context.Context, in domain.Registration) (*domain.Identity, error) {
	var out authResponse
	if err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	id := domain.Identity{Username: out.User.Username, Role: out.User.Role}
	if id.Username == "" {
		id = domain.Identity{Username: in.Username, Role: in.Role}
	}
	return &id, nil
}
