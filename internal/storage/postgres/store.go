// Package postgres backs the ledger's KVStore with a single PostgreSQL
// table. Retention windows are stored as a retain_until timestamp and
// interpreted in seconds.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
)

// Schema for the backing table:
//
//	CREATE TABLE ledger_kv (
//	    key          TEXT PRIMARY KEY,
//	    value        BYTEA NOT NULL,
//	    retain_until TIMESTAMPTZ
//	);
//
// A NULL retain_until means no retention window was requested; such rows
// never lapse.

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key models.StorageKey) ([]byte, bool, error) {
	const query = `SELECT value FROM ledger_kv
		WHERE key = $1 AND (retain_until IS NULL OR retain_until > now())`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key.Encode()).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", key.Encode(), err)
	}
	return value, true, nil
}

// Apply runs the whole batch inside one transaction, mirroring the
// all-or-nothing contract of interfaces.KVStore.
func (s *Store) Apply(ctx context.Context, batch []models.WriteOp) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, op := range batch {
		if err = s.applyOp(ctx, tx, op); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) applyOp(ctx context.Context, tx *sql.Tx, op models.WriteOp) error {
	encoded := op.Key.Encode()
	switch op.Kind {
	case models.OpPut:
		const query = `INSERT INTO ledger_kv (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
		if _, err := tx.ExecContext(ctx, query, encoded, op.Value); err != nil {
			return fmt.Errorf("put %s: %w", encoded, err)
		}
	case models.OpDelete:
		const query = `DELETE FROM ledger_kv WHERE key = $1`
		if _, err := tx.ExecContext(ctx, query, encoded); err != nil {
			return fmt.Errorf("delete %s: %w", encoded, err)
		}
	case models.OpExtendRetention:
		// Only rows whose remaining window dropped below the minimum get
		// pushed out to the maximum.
		const query = `UPDATE ledger_kv
			SET retain_until = now() + make_interval(secs => $2)
			WHERE key = $1
			  AND (retain_until IS NULL
			       OR retain_until < now() + make_interval(secs => $3))`
		if _, err := tx.ExecContext(ctx, query, encoded, float64(op.MaxWindow), float64(op.MinWindow)); err != nil {
			return fmt.Errorf("extend retention %s: %w", encoded, err)
		}
	}
	return nil
}

var _ interfaces.KVStore = (*Store)(nil)
