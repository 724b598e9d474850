package postgres

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	b64url = base64.RawURLEncoding

	// Every token this package issues carries the same header.
	hs256Header = b64url.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	errMalformedToken = errors.New("malformed token")
)

// issueToken signs claims as a compact HS256 JWT.
func (a *Auth) issueToken(claims Claims) (string, error) {
	body, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}
	unsigned := hs256Header + "." + b64url.EncodeToString(body)
	return unsigned + "." + b64url.EncodeToString(a.mac(unsigned)), nil
}

// ValidateToken checks the signature, expiry and issuer of a token from
// issueToken and returns its claims.
func (a *Auth) ValidateToken(token string) (*Claims, error) {
	unsigned, sig, ok := cutLast(token, '.')
	if !ok {
		return nil, errMalformedToken
	}
	header, body, ok := strings.Cut(unsigned, ".")
	if !ok || strings.Contains(body, ".") {
		return nil, errMalformedToken
	}
	if header != hs256Header {
		return nil, errors.New("unsupported token header")
	}

	gotSig, err := b64url.DecodeString(sig)
	if err != nil || !hmac.Equal(gotSig, a.mac(unsigned)) {
		return nil, errors.New("bad token signature")
	}

	raw, err := b64url.DecodeString(body)
	if err != nil {
		return nil, errMalformedToken
	}
	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	switch {
	case a.now().Unix() > claims.Exp:
		return nil, errors.New("token expired")
	case a.jwtIssuer != "" && claims.Iss != a.jwtIssuer:
		return nil, fmt.Errorf("token issued by %q", claims.Iss)
	}
	return &claims, nil
}

func (a *Auth) mac(unsigned string) []byte {
	h := hmac.New(sha256.New, a.jwtSecret)
	h.Write([]byte(unsigned))
	return h.Sum(nil)
}

func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
