// Package auth decides whether a request may use the color analysis routes.
//
// The check happens entirely at the service boundary: the imaging and
// analyzer packages never see identities or tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeAnalyze is the token scope that grants access to analysis routes.
const ScopeAnalyze = "analyze"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token scope does not allow analysis")
)

// Claims are carried by analysis tokens.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Authorizer answers "is this call authorized" for an incoming request.
type Authorizer interface {
	Authorize(r *http.Request) (*Claims, error)
}

// AllowAll authorizes every request. It is used when no token secret is
// configured.
type AllowAll struct{}

func (AllowAll) Authorize(*http.Request) (*Claims, error) {
	return &Claims{Scope: ScopeAnalyze}, nil
}

// TokenAuthorizer accepts HS256 bearer tokens signed with a shared secret.
type TokenAuthorizer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenAuthorizer(secret string) *TokenAuthorizer {
	return &TokenAuthorizer{secret: []byte(secret), now: time.Now}
}

// Authorize validates the Authorization header of r.
func (a *TokenAuthorizer) Authorize(r *http.Request) (*Claims, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, ErrMissingToken
	}
	return a.Verify(raw)
}

// Verify parses and validates a raw token string.
func (a *TokenAuthorizer) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Scope != ScopeAnalyze {
		return nil, ErrWrongScope
	}
	return claims, nil
}

// IssueToken mints an analysis token for subject that expires after ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Scope: ScopeAnalyze,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
