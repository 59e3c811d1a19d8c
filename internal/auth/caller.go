// Package auth provides Authorizer implementations: a verified-caller token
// for embedding and tests, and JWT bearer verification for the HTTP server.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// ErrUnauthorized marks every authorization failure produced by this
// package. It is deliberately outside the ledger's error taxonomy.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnauthenticated marks the subset of failures where no verifiable
// credential was presented at all, as opposed to a valid credential held by
// the wrong principal. It matches ErrUnauthorized under errors.Is.
var ErrUnauthenticated = fmt.Errorf("%w: unauthenticated", ErrUnauthorized)

// Caller is a verified-caller token: the host has already established who is
// calling, and authorization succeeds only for that principal.
type Caller struct {
	Principal models.AccountID
}

func AsCaller(principal models.AccountID) Caller {
	return Caller{Principal: principal}
}

func (c Caller) RequireAuthorized(ctx context.Context, principal models.AccountID) error {
	if c.Principal != principal {
		return fmt.Errorf("%w: caller %q is not %q", ErrUnauthorized, c.Principal, principal)
	}
	return nil
}

var _ interfaces.Authorizer = Caller{}
