package token_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/token"
)

// Codes are part of the wire contract and must never shift.
func TestErrorCodesAreStable(t *testing.T) {
	require.Equal(t, token.Code(1), token.ErrAlreadyInitialized.Code)
	require.Equal(t, token.Code(2), token.ErrInvalidAmount.Code)
	require.Equal(t, token.Code(3), token.ErrInsufficientBalance.Code)
	require.Equal(t, token.Code(4), token.ErrInsufficientAllowance.Code)
	require.Equal(t, token.Code(5), token.ErrNotInitialized.Code)
	require.Equal(t, token.Code(6), token.ErrInvalidDecimals.Code)
	require.Equal(t, token.Code(7), token.ErrOverflow.Code)
	require.Equal(t, token.Code(8), token.ErrInvalidRecipient.Code)
	require.Equal(t, token.Code(9), token.ErrInvalidMetadata.Code)
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, token.CodeInsufficientBalance, token.CodeOf(token.ErrInsufficientBalance))
	require.Equal(t, token.CodeOverflow,
		token.CodeOf(fmt.Errorf("persist mint: %w", token.ErrOverflow)))
	require.Equal(t, token.CodeNone, token.CodeOf(errors.New("store down")))
	require.Equal(t, token.CodeNone, token.CodeOf(nil))
}
