package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

type bearerKey struct{}

// WithBearer attaches the raw bearer token of the current call to ctx.
// Typically done by HTTP middleware before the ledger is invoked.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// JWT authorizes a principal when the call carries a bearer token signed
// with the shared HMAC secret whose subject is that principal.
type JWT struct {
	secret []byte
}

func NewJWT(secret []byte) *JWT {
	return &JWT{secret: secret}
}

func (j *JWT) RequireAuthorized(ctx context.Context, principal models.AccountID) error {
	raw, _ := ctx.Value(bearerKey{}).(string)
	if raw == "" {
		return fmt.Errorf("%w: no bearer token on call", ErrUnauthenticated)
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return j.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: verify bearer token: %v", ErrUnauthenticated, err)
	}
	if claims.Subject != string(principal) {
		return fmt.Errorf("%w: token subject %q is not %q", ErrUnauthorized, claims.Subject, principal)
	}
	return nil
}

// Sign issues a token for principal, valid for ttl. Used by tests and
// tooling; production tokens normally come from the identity provider.
func (j *JWT) Sign(principal models.AccountID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(principal),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

var _ interfaces.Authorizer = (*JWT)(nil)
