// Package token implements the bookkeeping core of a fungible-token ledger:
// balances, allowances, total supply and the mint authority, with strict
// authorization and checked arithmetic.
package token

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models/events"
)

const (
	maxDecimals     = 18
	maxNameLength   = 100
	maxSymbolLength = 32

	// Retention window requested on every persistent-tier write and on the
	// metadata keys at initialization. Units belong to the store adapter.
	retentionMin = 100_000
	retentionMax = 200_000
)

// maxAmount is the largest representable amount, matching the upper bound of
// a signed 128-bit integer. Balances, allowances and the supply counter all
// stay within [0, maxAmount].
var maxAmount = decimal.NewFromBigInt(new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)), 0)

// Ledger is the token ledger service. It owns no state of its own: all
// records live in the injected store, so multiple instances can coexist as
// long as they point at different stores. The host is expected to serialize
// calls against one instance; the ledger performs no internal locking.
type Ledger struct {
	store  interfaces.KVStore
	auth   interfaces.Authorizer
	events interfaces.EventPublisher
	log    zerolog.Logger
}

// NewLedger wires the ledger to its collaborators. A nil publisher discards
// events.
func NewLedger(store interfaces.KVStore, auth interfaces.Authorizer, events interfaces.EventPublisher, log zerolog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		auth:   auth,
		events: events,
		log:    log,
	}
}

// Initialize sets the admin identity and token metadata exactly once. The
// first caller wins; there is no authorization gate, so deployment must call
// it before anything else. All writes land atomically: partial
// initialization is never observable.
func (l *Ledger) Initialize(ctx context.Context, admin models.AccountID, name, symbol string, decimals uint32) error {
	_, initialized, err := l.store.Get(ctx, models.InitializedKey())
	if err != nil {
		return fmt.Errorf("read initialized flag: %w", err)
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	if decimals > maxDecimals {
		return ErrInvalidDecimals
	}
	if len(name) == 0 || len(name) > maxNameLength {
		return ErrInvalidMetadata
	}
	if len(symbol) == 0 || len(symbol) > maxSymbolLength {
		return ErrInvalidMetadata
	}

	batch := []models.WriteOp{
		models.PutOp(models.AdminKey(), []byte(admin)),
		models.PutOp(models.TokenNameKey(), []byte(name)),
		models.PutOp(models.TokenSymbolKey(), []byte(symbol)),
		models.PutOp(models.DecimalsKey(), []byte(strconv.FormatUint(uint64(decimals), 10))),
		models.PutOp(models.TotalSupplyKey(), encodeAmount(decimal.Zero)),
		models.PutOp(models.InitializedKey(), []byte("1")),
	}
	for _, key := range []models.StorageKey{
		models.AdminKey(), models.TokenNameKey(), models.TokenSymbolKey(),
		models.DecimalsKey(), models.TotalSupplyKey(), models.InitializedKey(),
	} {
		batch = append(batch, models.ExtendRetentionOp(key, retentionMin, retentionMax))
	}
	if err := l.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("persist initialization: %w", err)
	}

	l.publish(events.TopicInit, events.Initialized{
		EventID:    uuid.New().String(),
		Admin:      admin,
		Name:       name,
		Symbol:     symbol,
		Decimals:   decimals,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Mint creates amount new units on to's balance. Admin only.
func (l *Ledger) Mint(ctx context.Context, to models.AccountID, amount decimal.Decimal) error {
	if err := l.requireInitialized(ctx); err != nil {
		return err
	}
	admin, err := l.Admin(ctx)
	if err != nil {
		return err
	}
	if err := l.auth.RequireAuthorized(ctx, admin); err != nil {
		return err
	}
	if !isPositiveAmount(amount) {
		return ErrInvalidAmount
	}

	balance, err := l.readAmount(ctx, models.BalanceKey(to))
	if err != nil {
		return err
	}
	newBalance, err := checkedAdd(balance, amount)
	if err != nil {
		return err
	}
	supply, err := l.readAmount(ctx, models.TotalSupplyKey())
	if err != nil {
		return err
	}
	newSupply, err := checkedAdd(supply, amount)
	if err != nil {
		return err
	}

	batch := setAmountOps(models.BalanceKey(to), newBalance)
	batch = append(batch, models.PutOp(models.TotalSupplyKey(), encodeAmount(newSupply)))
	if err := l.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("persist mint: %w", err)
	}

	l.publish(events.TopicMint, events.Minted{
		EventID:    uuid.New().String(),
		To:         to,
		Amount:     amount,
		NewBalance: newBalance,
		NewSupply:  newSupply,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Burn destroys amount units from from's balance. Requires from's
// authorization.
func (l *Ledger) Burn(ctx context.Context, from models.AccountID, amount decimal.Decimal) error {
	if err := l.requireInitialized(ctx); err != nil {
		return err
	}
	if err := l.auth.RequireAuthorized(ctx, from); err != nil {
		return err
	}
	if !isPositiveAmount(amount) {
		return ErrInvalidAmount
	}

	balance, err := l.readAmount(ctx, models.BalanceKey(from))
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	newBalance := balance.Sub(amount)

	supply, err := l.readAmount(ctx, models.TotalSupplyKey())
	if err != nil {
		return err
	}
	// The balance check above makes supply underflow impossible unless the
	// supply invariant is already broken; fail closed rather than wrap.
	newSupply, err := checkedSub(supply, amount)
	if err != nil {
		return err
	}

	batch := setAmountOps(models.BalanceKey(from), newBalance)
	batch = append(batch, models.PutOp(models.TotalSupplyKey(), encodeAmount(newSupply)))
	if err := l.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("persist burn: %w", err)
	}

	l.publish(events.TopicBurn, events.Burned{
		EventID:    uuid.New().String(),
		From:       from,
		Amount:     amount,
		NewBalance: newBalance,
		NewSupply:  newSupply,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Transfer moves amount units from from to to. Requires from's
// authorization. Self-transfers are rejected so every successful transfer
// changes exactly two accounts.
func (l *Ledger) Transfer(ctx context.Context, from, to models.AccountID, amount decimal.Decimal) error {
	if err := l.requireInitialized(ctx); err != nil {
		return err
	}
	if err := l.auth.RequireAuthorized(ctx, from); err != nil {
		return err
	}
	if !isPositiveAmount(amount) {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrInvalidRecipient
	}

	fromBalance, err := l.readAmount(ctx, models.BalanceKey(from))
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	newFromBalance := fromBalance.Sub(amount)

	toBalance, err := l.readAmount(ctx, models.BalanceKey(to))
	if err != nil {
		return err
	}
	newToBalance, err := checkedAdd(toBalance, amount)
	if err != nil {
		return err
	}

	batch := setAmountOps(models.BalanceKey(from), newFromBalance)
	batch = append(batch, setAmountOps(models.BalanceKey(to), newToBalance)...)
	if err := l.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("persist transfer: %w", err)
	}

	l.publish(events.TopicTransfer, events.Transferred{
		EventID:        uuid.New().String(),
		From:           from,
		To:             to,
		Amount:         amount,
		NewFromBalance: newFromBalance,
		NewToBalance:   newToBalance,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

// Approve sets spender's allowance over owner's balance to amount. Zero
// revokes; the record is pruned rather than stored as zero.
func (l *Ledger) Approve(ctx context.Context, owner, spender models.AccountID, amount decimal.Decimal) error {
	if err := l.requireInitialized(ctx); err != nil {
		return err
	}
	if err := l.auth.RequireAuthorized(ctx, owner); err != nil {
		return err
	}
	if amount.Sign() < 0 || !amount.IsInteger() {
		return ErrInvalidAmount
	}
	// Allowances are bounded like every other stored amount.
	if amount.Cmp(maxAmount) > 0 {
		return ErrOverflow
	}

	key := models.AllowanceKey(owner, spender)
	oldAllowance, err := l.readAmount(ctx, key)
	if err != nil {
		return err
	}
	if err := l.store.Apply(ctx, setAmountOps(key, amount)); err != nil {
		return fmt.Errorf("persist approve: %w", err)
	}

	l.publish(events.TopicApprove, events.Approved{
		EventID:      uuid.New().String(),
		Owner:        owner,
		Spender:      spender,
		OldAllowance: oldAllowance,
		NewAllowance: amount,
		OccurredAt:   time.Now().UTC(),
	})
	return nil
}

// TransferFrom moves amount units from from to to on spender's authority,
// consuming spender's allowance. Requires spender's authorization.
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to models.AccountID, amount decimal.Decimal) error {
	if err := l.requireInitialized(ctx); err != nil {
		return err
	}
	if err := l.auth.RequireAuthorized(ctx, spender); err != nil {
		return err
	}
	if !isPositiveAmount(amount) {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrInvalidRecipient
	}

	allowanceKey := models.AllowanceKey(from, spender)
	allowed, err := l.readAmount(ctx, allowanceKey)
	if err != nil {
		return err
	}
	if allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	fromBalance, err := l.readAmount(ctx, models.BalanceKey(from))
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	newFromBalance := fromBalance.Sub(amount)

	toBalance, err := l.readAmount(ctx, models.BalanceKey(to))
	if err != nil {
		return err
	}
	newToBalance, err := checkedAdd(toBalance, amount)
	if err != nil {
		return err
	}
	newAllowance := allowed.Sub(amount)

	batch := setAmountOps(models.BalanceKey(from), newFromBalance)
	batch = append(batch, setAmountOps(models.BalanceKey(to), newToBalance)...)
	batch = append(batch, setAmountOps(allowanceKey, newAllowance)...)
	if err := l.store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("persist transfer_from: %w", err)
	}

	l.publish(events.TopicTransferFrom, events.TransferredFrom{
		EventID:        uuid.New().String(),
		Spender:        spender,
		From:           from,
		To:             to,
		Amount:         amount,
		NewFromBalance: newFromBalance,
		NewToBalance:   newToBalance,
		NewAllowance:   newAllowance,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

// Balance returns account's balance, zero if no record exists.
func (l *Ledger) Balance(ctx context.Context, account models.AccountID) (decimal.Decimal, error) {
	return l.readAmount(ctx, models.BalanceKey(account))
}

// Allowance returns what spender may still move out of owner's balance,
// zero if no record exists.
func (l *Ledger) Allowance(ctx context.Context, owner, spender models.AccountID) (decimal.Decimal, error) {
	return l.readAmount(ctx, models.AllowanceKey(owner, spender))
}

// TotalSupply returns the amount of units in existence across all accounts.
func (l *Ledger) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	return l.readAmount(ctx, models.TotalSupplyKey())
}

// Name returns the token name, empty before initialization.
func (l *Ledger) Name(ctx context.Context) (string, error) {
	value, _, err := l.store.Get(ctx, models.TokenNameKey())
	if err != nil {
		return "", fmt.Errorf("read token name: %w", err)
	}
	return string(value), nil
}

// Symbol returns the token symbol, empty before initialization.
func (l *Ledger) Symbol(ctx context.Context) (string, error) {
	value, _, err := l.store.Get(ctx, models.TokenSymbolKey())
	if err != nil {
		return "", fmt.Errorf("read token symbol: %w", err)
	}
	return string(value), nil
}

// Decimals returns the token precision, zero before initialization.
func (l *Ledger) Decimals(ctx context.Context) (uint32, error) {
	value, ok, err := l.store.Get(ctx, models.DecimalsKey())
	if err != nil {
		return 0, fmt.Errorf("read decimals: %w", err)
	}
	if !ok {
		return 0, nil
	}
	d, err := strconv.ParseUint(string(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("decode decimals: %w", err)
	}
	return uint32(d), nil
}

// Admin returns the mint authority, or ErrNotInitialized before
// initialization.
func (l *Ledger) Admin(ctx context.Context) (models.AccountID, error) {
	value, ok, err := l.store.Get(ctx, models.AdminKey())
	if err != nil {
		return "", fmt.Errorf("read admin: %w", err)
	}
	if !ok {
		return "", ErrNotInitialized
	}
	return models.AccountID(value), nil
}

// Metadata bundles the name/symbol/decimals getters.
func (l *Ledger) Metadata(ctx context.Context) (models.TokenMetadata, error) {
	name, err := l.Name(ctx)
	if err != nil {
		return models.TokenMetadata{}, err
	}
	symbol, err := l.Symbol(ctx)
	if err != nil {
		return models.TokenMetadata{}, err
	}
	decimals, err := l.Decimals(ctx)
	if err != nil {
		return models.TokenMetadata{}, err
	}
	return models.TokenMetadata{Name: name, Symbol: symbol, Decimals: decimals}, nil
}

func (l *Ledger) requireInitialized(ctx context.Context) error {
	_, ok, err := l.store.Get(ctx, models.InitializedKey())
	if err != nil {
		return fmt.Errorf("read initialized flag: %w", err)
	}
	if !ok {
		return ErrNotInitialized
	}
	return nil
}

func (l *Ledger) readAmount(ctx context.Context, key models.StorageKey) (decimal.Decimal, error) {
	value, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read %s: %w", key.Encode(), err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(string(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode %s: %w", key.Encode(), err)
	}
	return amount, nil
}

// publish delivers an event after a committed mutation. Failures are logged
// and swallowed: an event sink outage must not fail a committed operation.
func (l *Ledger) publish(topic string, event any) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(topic, event); err != nil {
		l.log.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
	}
}

func encodeAmount(amount decimal.Decimal) []byte {
	return []byte(amount.String())
}

// setAmountOps stores amount under key, pruning the record when the amount
// reaches zero. Persistent-tier writes get their retention window extended.
func setAmountOps(key models.StorageKey, amount decimal.Decimal) []models.WriteOp {
	if amount.IsZero() {
		return []models.WriteOp{models.DeleteOp(key)}
	}
	ops := []models.WriteOp{models.PutOp(key, encodeAmount(amount))}
	if key.Tier() == models.TierPersistent {
		ops = append(ops, models.ExtendRetentionOp(key, retentionMin, retentionMax))
	}
	return ops
}

func isPositiveAmount(amount decimal.Decimal) bool {
	return amount.Sign() > 0 && amount.IsInteger()
}

// checkedAdd adds two non-negative amounts, failing with ErrOverflow when
// the sum leaves the representable range.
func checkedAdd(a, b decimal.Decimal) (decimal.Decimal, error) {
	sum := a.Add(b)
	if sum.Cmp(maxAmount) > 0 {
		return decimal.Zero, ErrOverflow
	}
	return sum, nil
}

// checkedSub subtracts b from a, failing with ErrOverflow when the result
// would go negative. Callers reject insufficient balances/allowances before
// reaching this path; a hit here means the stored state is inconsistent.
func checkedSub(a, b decimal.Decimal) (decimal.Decimal, error) {
	diff := a.Sub(b)
	if diff.Sign() < 0 {
		return decimal.Zero, ErrOverflow
	}
	return diff, nil
}
