package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/auth"
)

func TestCaller(t *testing.T) {
	ctx := context.Background()
	c := auth.AsCaller("alice")

	require.NoError(t, c.RequireAuthorized(ctx, "alice"))

	// The host already established who is calling, so a mismatch is a
	// wrong principal, not a missing credential.
	err := c.RequireAuthorized(ctx, "bob")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
	require.NotErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestJWT(t *testing.T) {
	j := auth.NewJWT([]byte("test-secret"))

	tok, err := j.Sign("alice", time.Minute)
	require.NoError(t, err)

	ctx := auth.WithBearer(context.Background(), tok)
	require.NoError(t, j.RequireAuthorized(ctx, "alice"))

	// Right token, wrong principal: authorization failed, but the caller
	// did authenticate.
	err = j.RequireAuthorized(ctx, "bob")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
	require.NotErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestJWTMissingBearer(t *testing.T) {
	j := auth.NewJWT([]byte("test-secret"))
	err := j.RequireAuthorized(context.Background(), "alice")
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestJWTWrongSecret(t *testing.T) {
	signer := auth.NewJWT([]byte("one-secret"))
	verifier := auth.NewJWT([]byte("another-secret"))

	tok, err := signer.Sign("alice", time.Minute)
	require.NoError(t, err)

	ctx := auth.WithBearer(context.Background(), tok)
	err = verifier.RequireAuthorized(ctx, "alice")
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestJWTExpired(t *testing.T) {
	j := auth.NewJWT([]byte("test-secret"))

	tok, err := j.Sign("alice", -time.Minute)
	require.NoError(t, err)

	ctx := auth.WithBearer(context.Background(), tok)
	err = j.RequireAuthorized(ctx, "alice")
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}
