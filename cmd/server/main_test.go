package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/auth"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/token"
)

func TestWriteFailureStatusCodes(t *testing.T) {
	srv := &server{log: zerolog.Nop()}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing credential", auth.ErrUnauthenticated, http.StatusUnauthorized},
		{"unverifiable credential", fmt.Errorf("%w: verify bearer token: bad signature", auth.ErrUnauthenticated), http.StatusUnauthorized},
		{"wrong principal", fmt.Errorf("%w: token subject %q is not %q", auth.ErrUnauthorized, "bob", "admin"), http.StatusForbidden},
		{"already initialized", token.ErrAlreadyInitialized, http.StatusConflict},
		{"not initialized", token.ErrNotInitialized, http.StatusConflict},
		{"invalid amount", token.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid recipient", token.ErrInvalidRecipient, http.StatusBadRequest},
		{"insufficient balance", token.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"overflow", token.ErrOverflow, http.StatusUnprocessableEntity},
		{"store failure", fmt.Errorf("persist mint: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.writeFailure(rec, tc.err)
			require.Equal(t, tc.want, rec.Code)
		})
	}
}
