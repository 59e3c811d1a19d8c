package interfaces

import (
	"context"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// KVStore is the durable key-value storage the ledger runs against. Any
// implementation works as long as Apply is all-or-nothing: either every op
// in the batch lands or none does.
type KVStore interface {
	// Get returns the stored value for key, with ok reporting whether a
	// live record exists.
	Get(ctx context.Context, key models.StorageKey) (value []byte, ok bool, err error)

	// Apply performs the batch atomically, in order.
	Apply(ctx context.Context, batch []models.WriteOp) error
}
