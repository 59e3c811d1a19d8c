// Package events defines the payloads published after each committed ledger
// operation. Payloads carry the post-operation values so consumers never
// need a follow-up read.
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// Topic names, one per ledger operation.
const (
	TopicInit         = "init"
	TopicMint         = "mint"
	TopicBurn         = "burn"
	TopicTransfer     = "transfer"
	TopicApprove      = "approve"
	TopicTransferFrom = "transfer_from"
)

type Initialized struct {
	EventID    string           `json:"event_id"`
	Admin      models.AccountID `json:"admin"`
	Name       string           `json:"name"`
	Symbol     string           `json:"symbol"`
	Decimals   uint32           `json:"decimals"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type Minted struct {
	EventID    string           `json:"event_id"`
	To         models.AccountID `json:"to"`
	Amount     decimal.Decimal  `json:"amount"`
	NewBalance decimal.Decimal  `json:"new_balance"`
	NewSupply  decimal.Decimal  `json:"new_supply"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type Burned struct {
	EventID    string           `json:"event_id"`
	From       models.AccountID `json:"from"`
	Amount     decimal.Decimal  `json:"amount"`
	NewBalance decimal.Decimal  `json:"new_balance"`
	NewSupply  decimal.Decimal  `json:"new_supply"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type Transferred struct {
	EventID        string           `json:"event_id"`
	From           models.AccountID `json:"from"`
	To             models.AccountID `json:"to"`
	Amount         decimal.Decimal  `json:"amount"`
	NewFromBalance decimal.Decimal  `json:"new_from_balance"`
	NewToBalance   decimal.Decimal  `json:"new_to_balance"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

type Approved struct {
	EventID      string           `json:"event_id"`
	Owner        models.AccountID `json:"owner"`
	Spender      models.AccountID `json:"spender"`
	OldAllowance decimal.Decimal  `json:"old_allowance"`
	NewAllowance decimal.Decimal  `json:"new_allowance"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

type TransferredFrom struct {
	EventID        string           `json:"event_id"`
	Spender        models.AccountID `json:"spender"`
	From           models.AccountID `json:"from"`
	To             models.AccountID `json:"to"`
	Amount         decimal.Decimal  `json:"amount"`
	NewFromBalance decimal.Decimal  `json:"new_from_balance"`
	NewToBalance   decimal.Decimal  `json:"new_to_balance"`
	NewAllowance   decimal.Decimal  `json:"new_allowance"`
	OccurredAt     time.Time        `json:"occurred_at"`
}
