package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

type AuthService struct {
	client           *backend.Client
	resetRedirectURL string
}

// NewAuthService creates a new AuthService. Password reset links land on
// resetRedirectURL.
func NewAuthService(client *backend.Client, resetRedirectURL string) *AuthService {
	return &AuthService{client: client, resetRedirectURL: resetRedirectURL}
}

// Enabled reports whether the backend can sign in and verify tokens.
func (s *AuthService) Enabled() bool {
	return s.client.AuthConfigured()
}

// Login signs in with email and password. Rejected credentials are reported
// as backend.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidInput("email and password are required")
	}
	if !s.client.AuthConfigured() {
		return nil, backend.ErrUnconfigured
	}

	id, err := s.client.Auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return id, nil
}

// RequestPasswordReset asks the backend to mail a reset link to email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalidInput("email is required")
	}
	if !s.client.AuthConfigured() {
		return backend.ErrUnconfigured
	}

	if err := s.client.Auth.ResetPasswordForEmail(ctx, email, s.resetRedirectURL); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// Authenticate resolves an API bearer token to its identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, backend.ErrInvalidCredentials
	}
	if !s.client.AuthConfigured() {
		return nil, backend.ErrUnconfigured
	}

	id, err := s.client.Auth.VerifyToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return id, nil
}
