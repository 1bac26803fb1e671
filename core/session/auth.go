package session

import (
	"context"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/gateway"
)

// Credentials are validated locally before any request is sent.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.TranslateValidationErrors(core.Validate.Struct(c))
}

// Service performs authentication against the backend and applies the
// result to the store as one atomic update.
type Service struct {
	api   *gateway.Client
	store *Store
}

func NewService(api *gateway.Client, store *Store) *Service {
	return &Service{api: api, store: store}
}

func (svc *Service) Login(ctx context.Context, creds Credentials) (Identity, error) {
	if err := creds.Validate(); err != nil {
		return Identity{}, err
	}
	var resp LoginResponse
	if err := svc.api.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return Identity{}, err
	}
	if err := svc.store.Login(resp); err != nil {
		return Identity{}, err
	}
	return resp.User, nil
}

func (svc *Service) Logout() error {
	return svc.store.Logout()
}
