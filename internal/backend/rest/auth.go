package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	ExpiresAt   int64    `json:"expires_at"`
	User        authUser `json:"user"`
}

// SignInWithPassword exchanges email and password for an access token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Identity, error) {
	params := url.Values{}
	params.Set("grant_type", "password")

	resp, err := c.do(ctx, call{
		op:     "sign in",
		method: http.MethodPost,
		path:   "/auth/v1/token",
		params: params,
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		if isCredentialError(err) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}

	var tok tokenResponse
	if err := decode(resp, "sign in", "", &tok); err != nil {
		return nil, err
	}

	expires := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	if tok.ExpiresAt > 0 {
		expires = time.Unix(tok.ExpiresAt, 0)
	}
	return &model.Identity{
		UserID:      tok.User.ID,
		Email:       tok.User.Email,
		AccessToken: tok.AccessToken,
		ExpiresAt:   expires.UTC(),
	}, nil
}

// ResetPasswordForEmail asks the auth service to mail a recovery link that
// lands on redirectTo.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	params := url.Values{}
	if redirectTo != "" {
		params.Set("redirect_to", redirectTo)
	}

	resp, err := c.do(ctx, call{
		op:     "password reset",
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		params: params,
		body:   map[string]string{"email": email},
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// VerifyToken resolves an access token to its user.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	resp, err := c.do(ctx, call{
		op:     "verify token",
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: token,
	})
	if err != nil {
		var be *backend.Error
		if errors.As(err, &be) && (be.StatusCode == http.StatusUnauthorized || be.StatusCode == http.StatusForbidden) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}

	var u authUser
	if err := decode(resp, "verify token", "", &u); err != nil {
		return nil, err
	}
	return &model.Identity{UserID: u.ID, Email: u.Email, AccessToken: token}, nil
}

// isCredentialError separates rejected credentials from other 4xx answers
// such as an unconfirmed email or rate limiting.
func isCredentialError(err error) bool {
	var be *backend.Error
	if !errors.As(err, &be) {
		return false
	}
	if be.StatusCode != http.StatusBadRequest && be.StatusCode != http.StatusUnauthorized {
		return false
	}
	switch be.Code {
	case "", "invalid_grant", "invalid_credentials":
		return true
	}
	return false
}
