package interfaces

import (
	"context"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// Authorizer proves that a principal approved the current call. A non-nil
// error aborts the whole operation; the ledger passes it through untranslated.
type Authorizer interface {
	RequireAuthorized(ctx context.Context, principal models.AccountID) error
}
