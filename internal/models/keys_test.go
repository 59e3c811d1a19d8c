package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

func TestKeyEncodingIsDistinct(t *testing.T) {
	keys := []models.StorageKey{
		models.BalanceKey("alice"),
		models.BalanceKey("bob"),
		models.AllowanceKey("alice", "bob"),
		models.AllowanceKey("bob", "alice"),
		models.TotalSupplyKey(),
		models.AdminKey(),
		models.TokenNameKey(),
		models.TokenSymbolKey(),
		models.DecimalsKey(),
		models.InitializedKey(),
	}

	seen := make(map[string]models.StorageKey)
	for _, k := range keys {
		encoded := k.Encode()
		prev, dup := seen[encoded]
		require.False(t, dup, "keys %v and %v both encode to %q", prev, k, encoded)
		seen[encoded] = k
	}
}

// Account IDs are opaque, so IDs containing the encoding's own separator
// byte must still map to distinct records.
func TestKeyEncodingIsInjectiveForSeparatorBearingIDs(t *testing.T) {
	pairs := [][2]models.AccountID{
		{"a", "b\x1fc"},
		{"a\x1fb", "c"},
		{"a\x1fb\x1fc", ""},
		{"", "a\x1fb\x1fc"},
		{"ab", "c"},
		{"a", "bc"},
	}

	seen := make(map[string][2]models.AccountID)
	for _, p := range pairs {
		encoded := models.AllowanceKey(p[0], p[1]).Encode()
		prev, dup := seen[encoded]
		require.False(t, dup, "pairs %q and %q both encode to %q", prev, p, encoded)
		seen[encoded] = p
	}

	require.NotEqual(t,
		models.BalanceKey("a\x1fb").Encode(),
		models.AllowanceKey("a", "b").Encode())
}

func TestKeyEncodingIsDeterministic(t *testing.T) {
	require.Equal(t, models.BalanceKey("alice").Encode(), models.BalanceKey("alice").Encode())
	require.Equal(t, models.AllowanceKey("a", "b").Encode(), models.AllowanceKey("a", "b").Encode())
}

func TestAllowanceKeyIsOrdered(t *testing.T) {
	// (owner, spender) and (spender, owner) are different records.
	require.NotEqual(t, models.AllowanceKey("a", "b").Encode(), models.AllowanceKey("b", "a").Encode())
}

func TestKeyTiers(t *testing.T) {
	require.Equal(t, models.TierPersistent, models.BalanceKey("alice").Tier())
	require.Equal(t, models.TierPersistent, models.AllowanceKey("alice", "bob").Tier())

	for _, k := range []models.StorageKey{
		models.TotalSupplyKey(), models.AdminKey(), models.TokenNameKey(),
		models.TokenSymbolKey(), models.DecimalsKey(), models.InitializedKey(),
	} {
		require.Equal(t, models.TierInstance, k.Tier(), "key %q", k.Encode())
	}
}
