package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acct = "acct-1"

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.Products().Create(context.Background(), &entity.Product{
		ID: "p1", AccountID: acct, Name: "Camisa",
		Variants: []entity.Variant{
			{SKU: "A-P-RED", Size: "P", Color: "Rojo", Quantity: 10, UnitCost: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)},
			{SKU: "A-M-RED", Size: "M", Color: "Rojo", Quantity: 3, UnitCost: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
}

func TestProducts_RejectsDuplicateSKU(t *testing.T) {
	s := NewStore()
	seed(t, s)
	err := s.Products().Create(context.Background(), &entity.Product{
		ID: "p2", AccountID: acct, Name: "Otra",
		Variants: []entity.Variant{{SKU: "A-P-RED"}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// mismo SKU en otra cuenta es válido
	err = s.Products().Create(context.Background(), &entity.Product{
		ID: "p2", AccountID: "acct-2", Name: "Otra",
		Variants: []entity.Variant{{SKU: "A-P-RED"}},
	})
	assert.NoError(t, err)
}

func TestVariants_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	q, err := s.Variants().ApplyDelta(ctx, acct, "p1", "A-P-RED", -3, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, q)

	_, err = s.Variants().ApplyDelta(ctx, acct, "p1", "A-P-RED", -1, 10)
	assert.ErrorIs(t, err, domain.ErrStaleState)

	_, err = s.Variants().ApplyDelta(ctx, acct, "p1", "NOPE", 1, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	v, err := s.Variants().GetVariant(ctx, acct, "A-P-RED")
	require.NoError(t, err)
	assert.Equal(t, 7, v.Quantity)
	assert.Equal(t, "Camisa", v.ProductName)
}

func TestVariants_ReturnedCopiesAreDetached(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	v, err := s.Variants().GetVariant(ctx, acct, "A-P-RED")
	require.NoError(t, err)
	v.Quantity = 999

	again, err := s.Variants().GetVariant(ctx, acct, "A-P-RED")
	require.NoError(t, err)
	assert.Equal(t, 10, again.Quantity)
}

func TestRun_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos inventory.TxRepositories) error {
		if _, err := repos.Variants.ApplyDelta(ctx, acct, "p1", "A-P-RED", -2, 10); err != nil {
			return err
		}
		if err := repos.Movements.Append(ctx, &entity.Movement{ID: "m1", AccountID: acct, SKU: "A-P-RED"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Variants().GetVariant(ctx, acct, "A-P-RED")
	require.NoError(t, err)
	assert.Equal(t, 10, v.Quantity)
	n := 0
	for _, err := range s.Movements().HistoryFor(ctx, acct, "A-P-RED") {
		require.NoError(t, err)
		n++
	}
	assert.Zero(t, n)
}

func TestRun_CommitsAndSequences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)

	for i, qty := range []int{10, 9} {
		err := s.Run(ctx, func(repos inventory.TxRepositories) error {
			after, err := repos.Variants.ApplyDelta(ctx, acct, "p1", "A-P-RED", -1, qty)
			if err != nil {
				return err
			}
			return repos.Movements.Append(ctx, &entity.Movement{
				ID: string(rune('a' + i)), AccountID: acct, SKU: "A-P-RED",
				Kind: entity.MovementKindSale, Quantity: 1, QuantityBefore: qty, QuantityAfter: after,
			})
		})
		require.NoError(t, err)
	}

	var got []*entity.Movement
	for m, err := range s.Movements().HistoryFor(ctx, acct, "A-P-RED") {
		require.NoError(t, err)
		got = append(got, m)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, int64(2), got[0].Seq)
	assert.Equal(t, 8, got[0].QuantityAfter)
	assert.Equal(t, int64(1), got[1].Seq)
}

func TestRun_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(inventory.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestVariants_ListBelow(t *testing.T) {
	s := NewStore()
	seed(t, s)
	items, err := s.Variants().ListBelow(context.Background(), acct, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A-M-RED", items[0].SKU)

	items, err = s.Variants().ListBelow(context.Background(), acct, 11)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A-M-RED", items[0].SKU)
}

func TestSales_ConditionalTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	sale := &entity.Sale{ID: "s1", AccountID: acct, Status: entity.SaleStatusActive, PaymentStatus: entity.PaymentStatusReceivable}
	require.NoError(t, s.Sales().Create(ctx, sale))

	now := time.Now()
	require.NoError(t, s.Sales().MarkReversed(ctx, acct, "s1", now))
	assert.ErrorIs(t, s.Sales().MarkReversed(ctx, acct, "s1", now), domain.ErrAlreadyReversed)

	require.NoError(t, s.Sales().MarkReceived(ctx, acct, "s1"))
	assert.ErrorIs(t, s.Sales().MarkReceived(ctx, acct, "s1"), domain.ErrConflict)

	got, err := s.Sales().GetByID(ctx, acct, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusReversed, got.Status)
	assert.Equal(t, entity.PaymentStatusReceived, got.PaymentStatus)

	_, err = s.Sales().GetByID(ctx, "otra", "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDefects_Resolve(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Defects().Create(ctx, &entity.DefectiveItem{ID: "d1", AccountID: acct, Status: entity.DefectStatusPending}))
	require.NoError(t, s.Defects().Create(ctx, &entity.DefectiveItem{ID: "d2", AccountID: acct, Status: entity.DefectStatusPending}))

	require.NoError(t, s.Defects().Resolve(ctx, acct, "d1", time.Now()))
	assert.ErrorIs(t, s.Defects().Resolve(ctx, acct, "d1", time.Now()), domain.ErrConflict)

	pending, err := s.Defects().ListByStatus(ctx, acct, entity.DefectStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "d2", pending[0].ID)

	all, err := s.Defects().ListByStatus(ctx, acct, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProducts_DeleteReleasesSKU(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s)
	require.NoError(t, s.Products().Delete(ctx, acct, "p1"))
	_, err := s.Variants().GetVariant(ctx, acct, "A-P-RED")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Products().Delete(ctx, acct, "p1"), domain.ErrNotFound)
}
