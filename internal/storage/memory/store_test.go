package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/fungible-token-ledger/internal/models"
	"github.com/sheikh-saqib/fungible-token-ledger/internal/storage/memory"
)

func TestPutGetDelete(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.BalanceKey("alice")

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Apply(ctx, []models.WriteOp{models.PutOp(key, []byte("100"))}))
	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("100"), value)

	require.NoError(t, s.Apply(ctx, []models.WriteOp{models.DeleteOp(key)}))
	_, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, s.Len())
}

func TestBatchAppliesInOrder(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.BalanceKey("alice")

	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.PutOp(key, []byte("1")),
		models.PutOp(key, []byte("2")),
		models.DeleteOp(models.BalanceKey("bob")),
	}))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("2"), value)
}

func TestRetentionLapse(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.BalanceKey("alice")

	now := int64(0)
	s.SetClock(func() int64 { return now })

	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.PutOp(key, []byte("100")),
		models.ExtendRetentionOp(key, 100, 200),
	}))

	now = 200
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "record lapsed before its window closed")

	now = 201
	_, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok, "record survived past its window")
}

func TestRetentionExtendOnTouch(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.BalanceKey("alice")

	now := int64(0)
	s.SetClock(func() int64 { return now })

	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.PutOp(key, []byte("100")),
		models.ExtendRetentionOp(key, 100, 200),
	}))

	// Touching again at t=150 pushes the window out to 150+200.
	now = 150
	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.PutOp(key, []byte("60")),
		models.ExtendRetentionOp(key, 100, 200),
	}))

	now = 340
	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("60"), value)

	now = 351
	_, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExtendSkippedWhileWindowIsAmple(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.BalanceKey("alice")

	now := int64(0)
	s.SetClock(func() int64 { return now })

	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.PutOp(key, []byte("100")),
		models.ExtendRetentionOp(key, 100, 200),
	}))

	// At t=50 the remaining window (150) still exceeds the minimum (100),
	// so the extension is a no-op and the record lapses after t=200.
	now = 50
	require.NoError(t, s.Apply(ctx, []models.WriteOp{
		models.ExtendRetentionOp(key, 100, 200),
	}))

	now = 201
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecordWithoutRetentionNeverLapses(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	key := models.AdminKey()

	now := int64(0)
	s.SetClock(func() int64 { return now })

	require.NoError(t, s.Apply(ctx, []models.WriteOp{models.PutOp(key, []byte("admin"))}))

	now = 1 << 40
	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
}
