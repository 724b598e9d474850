package postgres

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

const (
	tokenTTL      = 24 * time.Hour
	resetTokenTTL = time.Hour
)

// Claims is the JWT payload issued on sign in.
type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
	Iss   string `json:"iss,omitempty"`
}

// Auth authenticates against the auth_users table and issues HS256 tokens.
type Auth struct {
	db        DB
	jwtSecret []byte
	jwtIssuer string
	now       func() time.Time
}

func NewAuth(db DB, jwtSecret, jwtIssuer string) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		jwtIssuer: jwtIssuer,
		now:       time.Now,
	}
}

// SignInWithPassword verifies the password and returns an identity carrying a
// freshly signed token.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*model.Identity, error) {
	var id, storedEmail, hash string
	err := a.db.QueryRow(ctx,
		`SELECT id::text, email, password_hash FROM auth_users WHERE lower(email) = lower($1)`, email,
	).Scan(&id, &storedEmail, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, wrapErr("sign in", "auth_users", err)
	}

	if !verifyArgon2(password, hash) {
		return nil, backend.ErrInvalidCredentials
	}

	now := a.now()
	claims := Claims{
		Sub:   id,
		Email: storedEmail,
		Iat:   now.Unix(),
		Exp:   now.Add(tokenTTL).Unix(),
		Iss:   a.jwtIssuer,
	}
	token, err := a.issueToken(claims)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.Identity{
		UserID:      id,
		Email:       storedEmail,
		AccessToken: token,
		ExpiresAt:   time.Unix(claims.Exp, 0).UTC(),
	}, nil
}

// ResetPasswordForEmail records a one-time reset token for the mailer. Unknown
// addresses succeed without writing anything.
func (a *Auth) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	var userID string
	err := a.db.QueryRow(ctx,
		`SELECT id::text FROM auth_users WHERE lower(email) = lower($1)`, email,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return wrapErr("password reset", "auth_users", err)
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	requestID := uuid.New().String()
	now := a.now()
	_, err = a.db.Exec(ctx,
		`INSERT INTO password_reset_requests (id, user_id, email, token_hash, redirect_to, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		requestID, userID, email, hashToken(token), redirectTo, now, now.Add(resetTokenTTL),
	)
	if err != nil {
		return wrapErr("password reset", "password_reset_requests", err)
	}

	payload, err := json.Marshal(resetNotice{ID: requestID, Email: email, Link: resetLink(redirectTo, token)})
	if err != nil {
		return fmt.Errorf("marshal reset notice: %w", err)
	}
	if _, err := a.db.Exec(ctx, `SELECT pg_notify($1, $2)`, ResetChannel, string(payload)); err != nil {
		return wrapErr("password reset", "password_reset_requests", err)
	}
	return nil
}

// ResetChannel is the LISTEN/NOTIFY channel the mailer subscribes to.
const ResetChannel = "password_reset"

type resetNotice struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Link  string `json:"link"`
}

func resetLink(redirectTo, token string) string {
	if redirectTo == "" {
		return ""
	}
	u, err := url.Parse(redirectTo)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// VerifyToken validates a token issued by SignInWithPassword.
func (a *Auth) VerifyToken(_ context.Context, token string) (*model.Identity, error) {
	claims, err := a.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrInvalidCredentials, err)
	}
	return &model.Identity{
		UserID:      claims.Sub,
		Email:       claims.Email,
		AccessToken: token,
		ExpiresAt:   time.Unix(claims.Exp, 0).UTC(),
	}, nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return b64url.EncodeToString(b), nil
}

// hashToken is what gets stored; the plain token only travels in the mail.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ backend.Authenticator = (*Auth)(nil)
