package models

import "strconv"

// StorageTier selects the retention policy a key lives under.
type StorageTier int

const (
	// TierInstance holds the small fixed set of metadata keys. Cheap, no
	// per-touch retention extension required.
	TierInstance StorageTier = iota
	// TierPersistent holds the unbounded per-account and per-pair keys.
	// Every write must extend the retention window.
	TierPersistent
)

// KeyKind enumerates every key shape the ledger stores. The set is closed:
// adding a kind means touching Encode and Tier as well.
type KeyKind int

const (
	KeyBalance KeyKind = iota
	KeyAllowance
	KeyTotalSupply
	KeyAdmin
	KeyTokenName
	KeyTokenSymbol
	KeyDecimals
	KeyInitialized
)

// keySep separates the fields of an encoded key.
const keySep = "\x1f"

// StorageKey is a tagged variant over the ledger's key space. Construct
// values through the helper functions below.
type StorageKey struct {
	Kind    KeyKind
	Owner   AccountID // Balance: the account; Allowance: the owner
	Spender AccountID // Allowance only
}

func BalanceKey(account AccountID) StorageKey {
	return StorageKey{Kind: KeyBalance, Owner: account}
}

func AllowanceKey(owner, spender AccountID) StorageKey {
	return StorageKey{Kind: KeyAllowance, Owner: owner, Spender: spender}
}

func TotalSupplyKey() StorageKey { return StorageKey{Kind: KeyTotalSupply} }
func AdminKey() StorageKey       { return StorageKey{Kind: KeyAdmin} }
func TokenNameKey() StorageKey   { return StorageKey{Kind: KeyTokenName} }
func TokenSymbolKey() StorageKey { return StorageKey{Kind: KeyTokenSymbol} }
func DecimalsKey() StorageKey    { return StorageKey{Kind: KeyDecimals} }
func InitializedKey() StorageKey { return StorageKey{Kind: KeyInitialized} }

// Tier reports which retention tier the key belongs to. Only the unbounded
// balance and allowance records live in the persistent tier.
func (k StorageKey) Tier() StorageTier {
	switch k.Kind {
	case KeyBalance, KeyAllowance:
		return TierPersistent
	default:
		return TierInstance
	}
}

// Encode renders the key deterministically for the underlying store.
// Account IDs are opaque byte strings, so the two-field allowance key
// length-prefixes its owner: the digits before the second separator fix
// where the owner ends, making the encoding injective for arbitrary IDs.
func (k StorageKey) Encode() string {
	switch k.Kind {
	case KeyBalance:
		return "balance" + keySep + string(k.Owner)
	case KeyAllowance:
		return "allowance" + keySep + strconv.Itoa(len(k.Owner)) + keySep +
			string(k.Owner) + string(k.Spender)
	case KeyTotalSupply:
		return "supply"
	case KeyAdmin:
		return "admin"
	case KeyTokenName:
		return "name"
	case KeyTokenSymbol:
		return "symbol"
	case KeyDecimals:
		return "decimals"
	case KeyInitialized:
		return "initialized"
	}
	panic("unknown key kind")
}

// WriteOpKind tags one mutation inside a write batch.
type WriteOpKind int

const (
	OpPut WriteOpKind = iota
	OpDelete
	OpExtendRetention
)

// WriteOp is a single mutation of the key-value store. Operations are
// grouped into batches that the store must apply atomically.
type WriteOp struct {
	Kind  WriteOpKind
	Key   StorageKey
	Value []byte // OpPut only

	// Retention window bounds, OpExtendRetention only. Units are the
	// store's: the adapters interpret them (seconds, ticks, ...).
	MinWindow int64
	MaxWindow int64
}

func PutOp(key StorageKey, value []byte) WriteOp {
	return WriteOp{Kind: OpPut, Key: key, Value: value}
}

func DeleteOp(key StorageKey) WriteOp {
	return WriteOp{Kind: OpDelete, Key: key}
}

func ExtendRetentionOp(key StorageKey, minWindow, maxWindow int64) WriteOp {
	return WriteOp{Kind: OpExtendRetention, Key: key, MinWindow: minWindow, MaxWindow: maxWindow}
}
