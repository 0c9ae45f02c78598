package apiclient

import (
	"context"
	"net/http"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
)

var _ ports.Backend = (*Client)(nil)

// Login exchanges credentials for an access token. It never sends a bearer token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	resp, err := c.Do(ctx, nil, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
	})
	if err != nil {
		return model.LoginResult{}, err
	}
	var out model.LoginResult
	if err := resp.Decode(&out); err != nil {
		return model.LoginResult{}, err
	}
	if out.AccessToken == "" {
		return model.LoginResult{}, apperrors.Unauthorized("Login response carried no access token")
	}
	return out, nil
}

// Me fetches the identity behind the current token.
func (c *Client) Me(ctx context.Context, ts ports.TokenSource) (domainauth.Identity, error) {
	resp, err := c.Do(ctx, ts, Request{Method: http.MethodGet, Path: "/auth/me"})
	if err != nil {
		return domainauth.Identity{}, err
	}
	var id domainauth.Identity
	if err := resp.Decode(&id); err != nil {
		return domainauth.Identity{}, err
	}
	return id, nil
}

// ChangePassword submits current and new password for the token's user.
func (c *Client) ChangePassword(ctx context.Context, ts ports.TokenSource, in model.PasswordChange) error {
	_, err := c.Do(ctx, ts, Request{
		Method: http.MethodPut,
		Path:   "/auth/me/password",
		Body:   in,
	})
	return err
}

// UpdateProfile updates username and full name and returns the stored record.
func (c *Client) UpdateProfile(ctx context.Context, ts ports.TokenSource, in model.ProfileUpdate) (domainauth.Identity, error) {
	resp, err := c.Do(ctx, ts, Request{
		Method: http.MethodPut,
		Path:   "/auth/me/profile",
		Body:   in,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	var id domainauth.Identity
	if err := resp.Decode(&id); err != nil {
		return domainauth.Identity{}, err
	}
	return id, nil
}
