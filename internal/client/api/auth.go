// Package api exposes the threads backend as typed operations on top of
// the authenticated apiclient.
package api

import (
	"context"

	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
	"github.com/dmitrijs2005/pulse/internal/client/models"
)

// AuthAPI covers the account endpoints.
//
// Login and Register do not install the returned tokens; that is the
// session's job.
type AuthAPI interface {
	Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error)
	Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

type authAPI struct {
	client *apiclient.Client
}

func NewAuthAPI(c *apiclient.Client) AuthAPI {
	return &authAPI{client: c}
}

func (a *authAPI) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	env, err := apiclient.Post[models.AuthResponse](ctx, a.client, apiclient.LoginPath, creds)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *authAPI) Register(ctx context.Context, creds models.RegisterCredentials) (*models.AuthResponse, error) {
	env, err := apiclient.Post[models.AuthResponse](ctx, a.client, apiclient.RegisterPath, creds)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (a *authAPI) Me(ctx context.Context) (*models.User, error) {
	env, err := apiclient.Get[models.User](ctx, a.client, "/auth/me")
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}
