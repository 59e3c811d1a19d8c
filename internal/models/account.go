package models

// AccountID uniquely identifies a token holder or spender. It is opaque to
// the ledger: any byte string works, only equality matters.
type AccountID string

func (a AccountID) String() string {
	return string(a)
}
